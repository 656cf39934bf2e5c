package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the process logger: local writes text to stdout at debug,
// dev and prod append to <dir>/<fileName> at debug and info respectively.
func SetupLogger(env, dir, fileName string) (*slog.Logger, error) {
	var out io.Writer = os.Stdout
	level := slog.LevelDebug

	switch env {
	case envLocal:
	case envDev, envProd:
		logPath := filepath.Join(dir, fileName)
		logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = logFile
		if env == envProd {
			level = slog.LevelInfo
		}
	default:
		return nil, fmt.Errorf("invalid environment: %s", env)
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), nil
}
