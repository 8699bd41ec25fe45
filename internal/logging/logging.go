// Package logging: file-backed session logging on top of the slog wrapper.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SetupFile creates a Logger that writes only to a timestamped file under
// logDir. Returns nil, nil if disabled (noLog=true).
func SetupFile(logDir string, verbose, noLog bool) (*Logger, error) {
	if noLog {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("animrender_run_%s.log", timestamp)
	filePath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	logger := New(Config{Level: level, Output: file, Enabled: true})
	logger.filePath = filePath
	logger.file = file

	logger.Info("render session starting", "logFile", filePath)
	if verbose {
		logger.Debug("debug level logging enabled")
	}

	return logger, nil
}

// Close closes the logger's backing file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// FilePath returns the path to the logger's backing file, if any.
func (l *Logger) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}
