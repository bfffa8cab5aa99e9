package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/example/leitnerbot/internal/config"
)

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg config.LoggerConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// Setup configures logging to output to stdout and, when a directory is
// configured, to a rotating log file named after prefix.
// The returned closer releases the log file.
func Setup(cfg config.LoggerConfig, prefix string) (io.Closer, error) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if cfg.Directory == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFilePath := filepath.Join(cfg.Directory, prefix+".log")
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	log.SetOutput(io.MultiWriter(os.Stdout, rotatingLogger))

	log.Printf("Logging initialized: writing to %s", logFilePath)
	return rotatingLogger, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
