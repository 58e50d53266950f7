package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// KVEntry describes a stored key without its value.
type KVEntry struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// SQLiteKV is a durable key-value store over the kv_entries table.
// Get returns nil for missing keys.
type SQLiteKV struct {
	db *sql.DB
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (kv *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	b := builder()
	query, args := b.Select("value").
		From(b.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Limit(1).
		Query()

	var value []byte
	err := kv.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (kv *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	query, args := builder().Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := kv.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (kv *SQLiteKV) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(kvTable).
		Where(entsql.EQ("key", key)).
		Query()

	if _, err := kv.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// List returns the entries whose key starts with prefix, ordered by key.
func (kv *SQLiteKV) List(ctx context.Context, prefix string) ([]KVEntry, error) {
	b := builder()
	t := b.Table(kvTable)
	query, args := b.Select(t.C("key"), "LENGTH("+t.C("value")+")", t.C("updated_at")).
		From(t).
		Where(entsql.HasPrefix(t.C("key"), prefix)).
		OrderBy(t.C("key")).
		Query()

	rows, err := kv.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	defer rows.Close()

	var entries []KVEntry
	for rows.Next() {
		var e KVEntry
		if err := rows.Scan(&e.Key, &e.Size, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan kv entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
