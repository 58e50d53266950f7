package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var resultFields = []string{
	"id", "session_id", "exam_id", "title", "subject", "mode", "teacher_code",
	"correct", "attempted", "total", "accuracy", "score", "marked",
	"time_taken_secs", "auto_submitted", "submitted_at",
}

// resultRepo implements ResultRepo over the test_results table.
type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) Save(ctx context.Context, rec *ResultRecord) error {
	query, args := builder().Insert(resultsTable).
		Columns(resultFields[1:]...).
		Values(
			rec.SessionID, rec.ExamID, rec.Title, rec.Subject, rec.Mode, rec.TeacherCode,
			rec.Correct, rec.Attempted, rec.Total, rec.Accuracy, rec.Score, rec.Marked,
			rec.TimeTakenSecs, rec.AutoSubmitted, rec.SubmittedAt.UTC(),
		).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("result id: %w", err)
	}
	rec.ID = int(id)
	return nil
}

func (r *resultRepo) Recent(ctx context.Context, limit int) ([]ResultRecord, error) {
	return r.query(ctx, nil, limit)
}

func (r *resultRepo) ForExam(ctx context.Context, examID string, limit int) ([]ResultRecord, error) {
	return r.query(ctx, entsql.EQ("exam_id", examID), limit)
}

func (r *resultRepo) query(ctx context.Context, where *entsql.Predicate, limit int) ([]ResultRecord, error) {
	b := builder()
	sel := b.Select(resultFields...).
		From(b.Table(resultsTable)).
		OrderBy(entsql.Desc("submitted_at"), entsql.Desc("id"))
	if where != nil {
		sel = sel.Where(where)
	}
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.ExamID, &rec.Title, &rec.Subject, &rec.Mode, &rec.TeacherCode,
			&rec.Correct, &rec.Attempted, &rec.Total, &rec.Accuracy, &rec.Score, &rec.Marked,
			&rec.TimeTakenSecs, &rec.AutoSubmitted, &rec.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
