package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the application log inside LogConfig.Directory
const LogFileName = "asterix.log"

// NewLogger creates the application logger writing to console and, when
// cfg.Logs.Directory is set, to a size rotated log file. The returned file
// logger is nil when no directory is configured; the caller closes it.
func NewLogger(cfg Config, console io.Writer) (*logrus.Logger, *lumberjack.Logger, error) {
	logger := logrus.New()
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	if cfg.Logs.Directory == "" {
		logger.SetOutput(console)
		return logger, nil, nil
	}

	if err := os.MkdirAll(cfg.Logs.Directory, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Logs.Directory, LogFileName),
		MaxSize:    cfg.Logs.MaxSizeMB,
		MaxAge:     cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
		LocalTime:  !cfg.RotateUTC,
	}
	logger.SetOutput(io.MultiWriter(console, file))
	return logger, file, nil
}
