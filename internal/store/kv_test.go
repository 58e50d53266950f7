package store

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the same contract against every backend.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	v, err := kv.Get(ctx, "mocktest_missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, kv.Set(ctx, "mocktest_a", []byte(`{"timeLeft":10}`)))
	require.NoError(t, kv.Set(ctx, "mocktest_b", []byte(`{}`)))
	require.NoError(t, kv.Set(ctx, "other", []byte(`x`)))

	v, err = kv.Get(ctx, "mocktest_a")
	require.NoError(t, err)
	assert.Equal(t, `{"timeLeft":10}`, string(v))

	// Overwrite.
	require.NoError(t, kv.Set(ctx, "mocktest_a", []byte(`{"timeLeft":9}`)))
	v, err = kv.Get(ctx, "mocktest_a")
	require.NoError(t, err)
	assert.Equal(t, `{"timeLeft":9}`, string(v))

	entries, err := kv.List(ctx, "mocktest_")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "mocktest_a", entries[0].Key)
	assert.Equal(t, len(`{"timeLeft":9}`), entries[0].Size)
	assert.Equal(t, "mocktest_b", entries[1].Key)

	require.NoError(t, kv.Delete(ctx, "mocktest_a"))
	require.NoError(t, kv.Delete(ctx, "mocktest_a"))
	v, err = kv.Get(ctx, "mocktest_a")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteKV(t *testing.T) {
	s := openTestStore(t)
	exerciseKV(t, s.KV())
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKV_ReturnsCopies(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", buf))
	buf[0] = 'z'

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestRedisKV(t *testing.T) {
	url := os.Getenv("LEARNEX_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LEARNEX_TEST_REDIS_URL not set")
	}
	kv, err := DialRedis(context.Background(), url, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		for _, k := range []string{"mocktest_a", "mocktest_b", "other"} {
			_ = kv.Delete(ctx, k)
		}
		kv.Close()
	})
	exerciseKV(t, kv)
}

func TestDialRedis_BadURL(t *testing.T) {
	_, err := DialRedis(context.Background(), "not a url", zerolog.Nop())
	assert.ErrorContains(t, err, "parse redis URL")
}
