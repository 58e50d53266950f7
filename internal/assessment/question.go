package assessment

// Difficulty is descriptive metadata; it does not affect scoring.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one multiple-choice item in a session.
// UserAnswerIndex and MarkedForReview are the only fields that change after
// generation.
type Question struct {
	ID                 int        `json:"id"`
	Prompt             string     `json:"question"`
	Options            []string   `json:"options"`
	CorrectOptionIndex int        `json:"correctAnswer"`
	UserAnswerIndex    *int       `json:"userAnswer"`
	MarkedForReview    bool       `json:"markedForReview"`
	Subject            string     `json:"subject"`
	Topic              string     `json:"topic"`
	Difficulty         Difficulty `json:"difficulty"`
}

// Answered reports whether the learner picked an option.
func (q Question) Answered() bool {
	return q.UserAnswerIndex != nil
}

// IsCorrect reports whether the picked option is the correct one.
func (q Question) IsCorrect() bool {
	return q.UserAnswerIndex != nil && *q.UserAnswerIndex == q.CorrectOptionIndex
}

// ValidOption reports whether i indexes into Options.
func (q Question) ValidOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// Status returns the palette status of the question.
func (q Question) Status() QuestionStatus {
	switch {
	case q.Answered() && q.MarkedForReview:
		return StatusAnsweredMarked
	case q.MarkedForReview:
		return StatusMarked
	case q.Answered():
		return StatusAnswered
	default:
		return StatusUnanswered
	}
}

// QuestionStatus is how a question appears in the question palette.
type QuestionStatus int

const (
	StatusUnanswered QuestionStatus = iota
	StatusAnswered
	StatusMarked
	StatusAnsweredMarked
)

func (s QuestionStatus) String() string {
	switch s {
	case StatusAnswered:
		return "answered"
	case StatusMarked:
		return "marked"
	case StatusAnsweredMarked:
		return "answered+marked"
	default:
		return "unanswered"
	}
}

// clone returns a deep copy so callers cannot mutate session state.
func (q Question) clone() Question {
	c := q
	c.Options = append([]string(nil), q.Options...)
	if q.UserAnswerIndex != nil {
		v := *q.UserAnswerIndex
		c.UserAnswerIndex = &v
	}
	return c
}

func cloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.clone()
	}
	return out
}
