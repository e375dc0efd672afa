package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where log lines go.
type Options struct {
	Level  string
	File   string
	Stdout bool
}

// New builds a text slog.Logger. With a file configured, output rotates
// through lumberjack and is copied to stdout when Stdout is set. The returned
// closer flushes the rotating file and is a no-op otherwise.
func New(opts Options) (*slog.Logger, io.Closer) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  20, // megabytes
			MaxAge:   90, // days
			Compress: true,
		}
		closer = rotating
		w = rotating
		if opts.Stdout {
			w = io.MultiWriter(os.Stdout, rotating)
		}
	}

	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)}))
	return log, closer
}

// ParseLevel maps a config level name to a slog level; unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
