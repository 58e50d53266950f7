package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LEARNEX_DB", "LEARNEX_STORE", "LEARNEX_REDIS_URL", "LEARNEX_LOG_LEVEL",
		"LEARNEX_LOG_FILE", "LEARNEX_AUTOSAVE_DELAY", "LEARNEX_AI_QUESTIONS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.AutosaveDelay)
	assert.False(t, cfg.AIQuestions)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEARNEX_DB", "/tmp/x.db")
	t.Setenv("LEARNEX_STORE", "Redis")
	t.Setenv("LEARNEX_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("LEARNEX_LOG_LEVEL", "debug")
	t.Setenv("LEARNEX_AUTOSAVE_DELAY", "250ms")
	t.Setenv("LEARNEX_AI_QUESTIONS", "true")

	cfg := Load()
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.AutosaveDelay)
	assert.True(t, cfg.AIQuestions)
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		val  string
		want time.Duration
	}{
		{"", 3 * time.Second},
		{"1500", 1500 * time.Millisecond},
		{"2s", 2 * time.Second},
		{"soon", 3 * time.Second},
	}
	for _, tt := range tests {
		t.Setenv("LEARNEX_TEST_DELAY", tt.val)
		assert.Equal(t, tt.want, getEnvDuration("LEARNEX_TEST_DELAY", 3*time.Second), "value %q", tt.val)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", Config{Store: StoreSQLite, AutosaveDelay: time.Second}, false},
		{"memory", Config{Store: StoreMemory, AutosaveDelay: time.Second}, false},
		{"redis without url", Config{Store: StoreRedis, AutosaveDelay: time.Second}, true},
		{"unknown store", Config{Store: "etcd", AutosaveDelay: time.Second}, true},
		{"zero delay", Config{Store: StoreSQLite}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
