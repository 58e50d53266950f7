package mocktest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/store"
)

// RecordFor converts a handoff into a history row.
func RecordFor(sessionID string, h assessment.Handoff) store.ResultRecord {
	cfg, r := h.TestConfig, h.Results
	return store.ResultRecord{
		SessionID:     sessionID,
		ExamID:        cfg.ExamID,
		Title:         cfg.Title,
		Subject:       cfg.Subject,
		Mode:          string(cfg.Mode),
		TeacherCode:   cfg.TeacherCode,
		Correct:       r.CorrectCount,
		Attempted:     r.AttemptedCount,
		Total:         r.TotalQuestions,
		Accuracy:      r.AccuracyPercent,
		Score:         r.Score,
		Marked:        r.MarkedCount,
		TimeTakenSecs: r.TimeTakenSeconds,
		AutoSubmitted: r.AutoSubmitted,
		SubmittedAt:   r.SubmittedAt,
	}
}

// recorder stores the submitted result and a submit event, then forwards
// the handoff to the screen. Storage failures are logged and never block
// the handoff.
type recorder struct {
	results   store.ResultRepo
	events    store.EventRepo
	log       zerolog.Logger
	sessionID string
	out       chan<- assessment.Handoff
}

func (r *recorder) Deliver(h assessment.Handoff) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if r.results != nil {
		rec := RecordFor(r.sessionID, h)
		if err := r.results.Save(ctx, &rec); err != nil {
			r.log.Warn().Err(err).Msg("save result")
		}
	}
	if r.events != nil {
		err := r.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:     r.sessionID,
			ExamID:        h.TestConfig.ExamID,
			Action:        store.ActionSubmit,
			Attempted:     h.Results.AttemptedCount,
			Correct:       h.Results.CorrectCount,
			RemainingSecs: h.TestConfig.DurationSeconds - h.Results.TimeTakenSeconds,
		})
		if err != nil {
			r.log.Warn().Err(err).Msg("append submit event")
		}
	}

	select {
	case r.out <- h:
	default:
	}
}
