package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// InitLogging sets up a JSON slog logger writing to stdout and a timestamped
// file under logDir. The returned func closes the log file.
func InitLogging(logDir string) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	name := time.Now().Format("01-02-2006_15-04-05") + ".log"
	f, err := os.Create(filepath.Join(logDir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("create log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, f), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	return logger, func() { _ = f.Close() }, nil
}
