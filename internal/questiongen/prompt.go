package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple choice questions for timed competitive-exam mock tests (JEE/NEET level).

Rules:
- Every question has exactly one correct option and three plausible distractors.
- Distractors should reflect common mistakes, not random values.
- Questions must be self-contained and answerable without figures.
- Use plain text. Write powers as x^2 and units in SI.
- Spread questions across the subject's syllabus topics and mix difficulties.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage asks for count questions on subject, listing prompts
// already accepted for this test.
func buildUserMessage(subject string, count int, prior []string, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)

	b.WriteString("\nAlready asked in this test:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorQuestions))

	return b.String()
}

// buildDedup formats prior prompts, keeping only the most recent max.
// Returns "None" if there are none.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
