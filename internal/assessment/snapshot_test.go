package assessment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV implements KeyValueStore for testing.
type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	deletes int
	failSet error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.data, key)
	return nil
}

func (m *memKV) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *memKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "mocktest_jee-1", SnapshotKey("jee-1"))
}

func TestEncodeDecodeSnapshot(t *testing.T) {
	qs := GenerateQuestions("Physics", 3)
	answer(qs, 1, 2)
	qs[2].MarkedForReview = true

	data, err := EncodeSnapshot(Snapshot{Questions: qs, CurrentQuestion: 1, TimeLeft: 120, Timestamp: 1700000000000})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentQuestion":1`)
	assert.Contains(t, string(data), `"timeLeft":120`)
	assert.Contains(t, string(data), `"version":"v1.0.0"`)

	s, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, s.Version)
	require.NotNil(t, s.Questions[1].UserAnswerIndex)
	assert.Equal(t, 2, *s.Questions[1].UserAnswerIndex)
	assert.True(t, s.Questions[2].MarkedForReview)
	assert.Equal(t, int64(1700000000000), s.SavedAt().UnixMilli())
}

func TestDecodeSnapshot_MissingVersion(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"questions":[],"currentQuestion":0,"timeLeft":10,"timestamp":0}`))
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", s.Version)
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte(`{"version":"one"}`))
	assert.Error(t, err)
}

func TestSnapshot_CompatibleWith(t *testing.T) {
	qs := GenerateQuestions("Physics", 4)
	base := Snapshot{Version: SnapshotVersion, Questions: cloneQuestions(qs), TimeLeft: 50}

	assert.True(t, base.CompatibleWith(qs, 60))

	minor := base
	minor.Version = "v1.3.0"
	assert.True(t, minor.CompatibleWith(qs, 60))

	major := base
	major.Version = "v2.0.0"
	assert.False(t, major.CompatibleWith(qs, 60))

	short := base
	short.Questions = short.Questions[:3]
	assert.False(t, short.CompatibleWith(qs, 60))

	expired := base
	expired.TimeLeft = 0
	assert.False(t, expired.CompatibleWith(qs, 60))

	tooLong := base
	tooLong.TimeLeft = 61
	assert.False(t, tooLong.CompatibleWith(qs, 60))

	badAnswer := base
	badAnswer.Questions = cloneQuestions(qs)
	answer(badAnswer.Questions, 0, 9)
	assert.False(t, badAnswer.CompatibleWith(qs, 60))

	otherSubject := base
	otherSubject.Questions = GenerateQuestions("Chemistry", 4)
	assert.False(t, otherSubject.CompatibleWith(qs, 60), "same ids, different questions")

	reworded := base
	reworded.Questions = cloneQuestions(qs)
	reworded.Questions[3].Prompt += "?"
	assert.False(t, reworded.CompatibleWith(qs, 60))

	reordered := base
	reordered.Questions = cloneQuestions(qs)
	opts := reordered.Questions[0].Options
	opts[0], opts[1] = opts[1], opts[0]
	assert.False(t, reordered.CompatibleWith(qs, 60))

	rekeyed := base
	rekeyed.Questions = cloneQuestions(qs)
	rekeyed.Questions[2].CorrectOptionIndex = (rekeyed.Questions[2].CorrectOptionIndex + 1) % 4
	assert.False(t, rekeyed.CompatibleWith(qs, 60))
}

func TestSnapshot_Resumable(t *testing.T) {
	good := Snapshot{Version: SnapshotVersion, Questions: GenerateQuestions("Chemistry", 3), TimeLeft: 30}
	assert.True(t, good.Resumable())

	assert.False(t, Snapshot{Version: SnapshotVersion}.Resumable())

	major := good
	major.Version = "v2.0.0"
	assert.False(t, major.Resumable())

	broken := good
	broken.Questions = cloneQuestions(good.Questions)
	broken.Questions[1].Options = []string{"only"}
	assert.False(t, broken.Resumable())

	badKey := good
	badKey.Questions = cloneQuestions(good.Questions)
	badKey.Questions[0].CorrectOptionIndex = 7
	assert.False(t, badKey.Resumable())
}

func TestSnapshot_BankClearsLearnerState(t *testing.T) {
	qs := GenerateQuestions("Chemistry", 3)
	answer(qs, 0, 1)
	qs[2].MarkedForReview = true
	snap := Snapshot{Version: SnapshotVersion, Questions: qs, TimeLeft: 30}

	bank := snap.Bank()
	require.Len(t, bank, 3)
	for i, q := range bank {
		assert.False(t, q.Answered())
		assert.False(t, q.MarkedForReview)
		assert.True(t, sameContent(q, qs[i]))
	}

	bank[0].Options[0] = "changed"
	assert.NotEqual(t, "changed", qs[0].Options[0], "bank is a copy")
	assert.True(t, snap.CompatibleWith(snap.Bank(), 30))
}

func TestLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()

	s, err := LoadSnapshot(ctx, kv, "absent")
	require.NoError(t, err)
	assert.Nil(t, s)

	data, err := EncodeSnapshot(Snapshot{Questions: GenerateQuestions("Physics", 2), TimeLeft: 5})
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, SnapshotKey("e1"), data))

	s, err = LoadSnapshot(ctx, kv, "e1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Len(t, s.Questions, 2)
}

type errKV struct{ memKV }

func (e *errKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadSnapshot_ReadError(t *testing.T) {
	_, err := LoadSnapshot(context.Background(), &errKV{}, "e1")
	assert.ErrorContains(t, err, "disk on fire")
}
