package logger

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup initializes the global zerolog logger.
//   - level: log level string (trace, debug, info, warn, error, fatal, panic)
//   - file: path of the rotated log file; empty disables logging
//
// The terminal UI owns stdout, so logs only ever go to a file. The returned
// closer flushes and closes it.
func Setup(level, file string) (zerolog.Logger, io.Closer) {
	if file == "" {
		l := zerolog.Nop()
		log.Logger = l
		return l, nopCloser{}
	}

	writer := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger()
	log.Logger = l

	return l, writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
