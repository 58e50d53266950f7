package assessment

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Mode is who set the test.
type Mode string

const (
	ModeAI      Mode = "ai"
	ModeTeacher Mode = "teacher"
)

// Policy constants for a full-length mock test.
const (
	DefaultSubject       = "Physics"
	DefaultExamID        = "mock-test"
	DefaultDuration      = 60 * time.Minute
	DefaultQuestionCount = 30
)

// SessionConfig is the immutable descriptor of one test session.
type SessionConfig struct {
	ExamID          string `json:"examId"`
	Title           string `json:"title"`
	Mode            Mode   `json:"mode"`
	Subject         string `json:"subject"`
	DurationSeconds int    `json:"duration"`
	TotalQuestions  int    `json:"totalQuestions"`
	TeacherCode     string `json:"teacherCode,omitempty"`
}

// Duration returns the configured time limit.
func (c SessionConfig) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

// ConfigFromNavigation builds a SessionConfig from an exam identifier and
// the query parameters mode, subject and teacherCode. Missing or unknown
// values fall back to defaults; it never fails.
func ConfigFromNavigation(examID string, query url.Values) SessionConfig {
	examID = strings.TrimSpace(examID)
	if examID == "" {
		examID = DefaultExamID
	}

	mode := ParseMode(query.Get("mode"))

	subject := strings.TrimSpace(query.Get("subject"))
	if subject == "" {
		subject = DefaultSubject
	}

	cfg := SessionConfig{
		ExamID:          examID,
		Mode:            mode,
		Subject:         subject,
		DurationSeconds: int(DefaultDuration / time.Second),
		TotalQuestions:  DefaultQuestionCount,
	}
	if mode == ModeTeacher {
		cfg.TeacherCode = strings.TrimSpace(query.Get("teacherCode"))
	}
	cfg.Title = buildTitle(cfg)
	return cfg
}

// ParseNavigationURL accepts a route such as
// "/mock-test/jee-1?mode=teacher&subject=Chemistry&teacherCode=T42".
// The last path segment is the exam identifier.
func ParseNavigationURL(raw string) SessionConfig {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ConfigFromNavigation("", nil)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	examID := segments[len(segments)-1]
	return ConfigFromNavigation(examID, u.Query())
}

// WithTeacherCode returns a copy of c with the teacher code set and the
// title rebuilt. It has no effect outside teacher mode.
func (c SessionConfig) WithTeacherCode(code string) SessionConfig {
	if c.Mode != ModeTeacher {
		return c
	}
	c.TeacherCode = strings.TrimSpace(code)
	c.Title = buildTitle(c)
	return c
}

// ParseMode maps a query value onto a Mode, defaulting to ModeAI.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeTeacher {
		return ModeTeacher
	}
	return ModeAI
}

func buildTitle(cfg SessionConfig) string {
	if cfg.Mode == ModeTeacher {
		if cfg.TeacherCode != "" {
			return fmt.Sprintf("%s Test · %s", cfg.Subject, cfg.TeacherCode)
		}
		return fmt.Sprintf("%s Test", cfg.Subject)
	}
	return fmt.Sprintf("%s Mock Test", cfg.Subject)
}
