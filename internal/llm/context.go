package llm

import "context"

// labels tag a request for the usage log.
type labels struct {
	purpose string
	exam    string
}

type labelsKey struct{}

func labelsFrom(ctx context.Context) labels {
	l, _ := ctx.Value(labelsKey{}).(labels)
	return l
}

// WithPurpose tags requests made with ctx, e.g. "question-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	l := labelsFrom(ctx)
	l.purpose = purpose
	return context.WithValue(ctx, labelsKey{}, l)
}

// WithExam records which exam requests made with ctx are for.
func WithExam(ctx context.Context, examID string) context.Context {
	l := labelsFrom(ctx)
	l.exam = examID
	return context.WithValue(ctx, labelsKey{}, l)
}

// PurposeFrom returns the purpose tag of ctx, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := labelsFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

// ExamFrom returns the exam tag of ctx, or "".
func ExamFrom(ctx context.Context) string {
	return labelsFrom(ctx).exam
}
