package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/learnex/learnex/internal/config"
	"github.com/learnex/learnex/internal/logger"
	"github.com/learnex/learnex/internal/store"
)

// env holds the process resources shared by the commands.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *store.Store
	kv    store.KV

	closers []io.Closer
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store = strings.ToLower(v)
	}
	if v, _ := cmd.Flags().GetString("redis-url"); v != "" {
		cfg.RedisURL = v
	}
	if cmd.Flags().Lookup("ai-questions") != nil && cmd.Flags().Changed("ai-questions") {
		cfg.AIQuestions, _ = cmd.Flags().GetBool("ai-questions")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logFile resolves the log destination; "-" disables logging.
func logFile(cfg *config.Config) string {
	switch cfg.LogFile {
	case "-":
		return ""
	case "":
		p, err := store.DefaultLogPath()
		if err != nil {
			return ""
		}
		return p
	default:
		return cfg.LogFile
	}
}

// setup loads configuration, starts logging and opens the database and
// the autosave backend. Callers must Close the env.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	log, logCloser := logger.Setup(cfg.LogLevel, logFile(cfg))
	e.log = log
	e.closers = append(e.closers, logCloser)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st)

	kv, err := openKV(cmd.Context(), cfg, st, log)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.kv = kv

	log.Info().
		Str("db", dbPath).
		Str("store", cfg.Store).
		Bool("ai_questions", cfg.AIQuestions).
		Msg("learnex starting")
	return e, nil
}

func openKV(ctx context.Context, cfg *config.Config, st *store.Store, log zerolog.Logger) (store.KV, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemoryKV(), nil
	case config.StoreRedis:
		if ctx == nil {
			ctx = context.Background()
		}
		kv, err := store.DialRedis(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, fmt.Errorf("connect autosave store: %w", err)
		}
		return kv, nil
	default:
		return st.KV(), nil
	}
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	if c, ok := e.kv.(io.Closer); ok {
		c.Close()
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}
