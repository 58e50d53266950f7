package assessment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuestions_LengthAndIDs(t *testing.T) {
	subjects := append(Subjects(), "Astronomy", "")
	for _, subject := range subjects {
		for _, n := range []int{1, 4, 5, 6, 30, 101} {
			qs := GenerateQuestions(subject, n)
			require.Len(t, qs, n, "subject %q n=%d", subject, n)
			for i, q := range qs {
				assert.Equal(t, i+1, q.ID)
				assert.NotEmpty(t, q.Prompt)
				assert.GreaterOrEqual(t, len(q.Options), 2)
				assert.True(t, q.ValidOption(q.CorrectOptionIndex))
				assert.Nil(t, q.UserAnswerIndex)
				assert.False(t, q.MarkedForReview)
			}
		}
	}
}

func TestGenerateQuestions_Repeatable(t *testing.T) {
	assert.Equal(t, GenerateQuestions("Chemistry", 12), GenerateQuestions("Chemistry", 12))
}

func TestGenerateQuestions_CyclesPool(t *testing.T) {
	qs := GenerateQuestions("Physics", 11)
	pool := len(templatePools["Physics"])

	assert.Equal(t, qs[0].Prompt, qs[pool].Prompt)
	assert.Equal(t, qs[1].Prompt, qs[pool+1].Prompt)
	assert.NotEqual(t, qs[0].ID, qs[pool].ID)
}

func TestGenerateQuestions_UnknownSubjectFallsBack(t *testing.T) {
	qs := GenerateQuestions("Underwater Basket Weaving", 3)
	for _, q := range qs {
		assert.Equal(t, "Physics", q.Subject)
	}

	qs = GenerateQuestions("mathematics", 2)
	assert.Equal(t, "Mathematics", qs[0].Subject)
}

func TestGenerateQuestions_NonPositiveCount(t *testing.T) {
	assert.Empty(t, GenerateQuestions("Physics", 0))
	assert.Empty(t, GenerateQuestions("Physics", -3))
}

func TestGenerateQuestions_OptionsNotShared(t *testing.T) {
	qs := GenerateQuestions("Biology", 6)
	qs[0].Options[0] = "changed"
	assert.NotEqual(t, "changed", qs[5].Options[0])
	assert.NotEqual(t, "changed", GenerateQuestions("Biology", 1)[0].Options[0])
}

func TestBankSource(t *testing.T) {
	cfg := SessionConfig{Subject: "Chemistry", TotalQuestions: 7}
	qs, err := BankSource{}.Questions(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, qs, 7)
	assert.Equal(t, "Chemistry", qs[6].Subject)
}
