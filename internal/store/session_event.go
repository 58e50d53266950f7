package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(sessionEventTable).
		Columns("sequence", "timestamp", "session_id", "exam_id", "action", "attempted", "correct", "remaining_secs").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.ExamID, data.Action, data.Attempted, data.Correct, data.RemainingSecs).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error) {
	b := builder()
	query, args := b.Select("sequence", "timestamp", "session_id", "exam_id", "action", "attempted", "correct", "remaining_secs").
		From(b.Table(sessionEventTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.ExamID, &e.Action, &e.Attempted, &e.Correct, &e.RemainingSecs)
		if err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
