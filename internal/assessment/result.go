package assessment

import (
	"math"
	"time"
)

// PointsPerCorrect is the score awarded for each correct answer.
const PointsPerCorrect = 4

// Result is the outcome of a submitted session. It is built once and never
// modified.
type Result struct {
	CorrectCount     int       `json:"correctAnswers"`
	AttemptedCount   int       `json:"attempted"`
	TotalQuestions   int       `json:"totalQuestions"`
	AccuracyPercent  int       `json:"accuracy"`
	Score            int       `json:"score"`
	TimeTakenSeconds int       `json:"timeTaken"`
	AutoSubmitted    bool      `json:"autoSubmitted"`
	MarkedCount      int       `json:"markedForReview"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// Unattempted returns the number of questions left blank.
func (r Result) Unattempted() int {
	return r.TotalQuestions - r.AttemptedCount
}

// Incorrect returns the number of attempted questions answered wrongly.
func (r Result) Incorrect() int {
	return r.AttemptedCount - r.CorrectCount
}

// MaxScore returns the score for a fully correct paper.
func (r Result) MaxScore() int {
	return r.TotalQuestions * PointsPerCorrect
}

// CompileResult reduces the final question state to a Result. Accuracy is
// measured over attempted questions only; blanks lower the score but not
// the accuracy.
func CompileResult(questions []Question, timeTakenSeconds int, autoSubmitted bool, at time.Time) Result {
	r := Result{
		TotalQuestions:   len(questions),
		TimeTakenSeconds: max(timeTakenSeconds, 0),
		AutoSubmitted:    autoSubmitted,
		SubmittedAt:      at,
	}

	for _, q := range questions {
		if q.Answered() {
			r.AttemptedCount++
		}
		if q.IsCorrect() {
			r.CorrectCount++
		}
		if q.MarkedForReview {
			r.MarkedCount++
		}
	}

	r.AccuracyPercent = accuracyPercent(r.CorrectCount, r.AttemptedCount)
	r.Score = r.CorrectCount * PointsPerCorrect
	return r
}

func accuracyPercent(correct, attempted int) int {
	if attempted <= 0 {
		return 0
	}
	pct := int(math.Round(float64(correct) / float64(attempted) * 100))
	return min(max(pct, 0), 100)
}
