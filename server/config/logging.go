package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/rs/zerolog"
)

// LogManager handles log file rotation and management
type LogManager struct {
	config     *LogConfig
	currentLog *os.File
}

// NewLogManager creates a new log manager
func NewLogManager(cfg *LogConfig) *LogManager {
	return &LogManager{
		config: cfg,
	}
}

// CleanupLogFile clears the log file before starting logging
func CleanupLogFile(filePath string) error {
	if filePath == "" {
		return nil // No file path specified, nothing to clean
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil // File doesn't exist, nothing to clean
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.New(ErrLogDirectoryCreationFailed, "failed to create log directory", err)
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return errors.New(ErrLogFileOpenFailed, "failed to open log file for cleanup", err)
	}
	return file.Close()
}

// GetWriter returns a writer that handles log rotation
func (lm *LogManager) GetWriter() (io.Writer, error) {
	if lm.config.FilePath == "" {
		return nil, errors.New(ErrLogFilePathRequired, "no log file path specified", nil)
	}

	if err := os.MkdirAll(filepath.Dir(lm.config.FilePath), 0755); err != nil {
		return nil, errors.New(ErrLogDirectoryCreationFailed, "failed to create log directory", err)
	}

	if err := lm.checkRotation(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(lm.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, errors.New(ErrLogFileOpenFailed, "failed to open log file", err)
	}

	lm.currentLog = file
	return file, nil
}

// checkRotation rotates the log file when it exceeds the configured size
func (lm *LogManager) checkRotation() error {
	if lm.config.MaxSize <= 0 {
		return nil // No rotation configured
	}

	info, err := os.Stat(lm.config.FilePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.New(ErrLogFileStatFailed, "failed to stat log file", err)
	}

	maxSizeBytes := int64(lm.config.MaxSize) * 1024 * 1024
	if info.Size() < maxSizeBytes {
		return nil
	}

	return lm.rotateLog()
}

// rotateLog renames the current log file to a timestamped backup
func (lm *LogManager) rotateLog() error {
	if lm.currentLog != nil {
		lm.currentLog.Close()
		lm.currentLog = nil
	}

	timestamp := time.Now().Format("2006-01-02-15-04-05")
	backupPath := fmt.Sprintf("%s.%s", lm.config.FilePath, timestamp)

	if err := os.Rename(lm.config.FilePath, backupPath); err != nil {
		return errors.New(ErrLogRotationFailed, "failed to rotate log file", err)
	}

	if err := lm.cleanupOldBackups(); err != nil {
		// Rotation itself succeeded, keep going
		fmt.Printf("Warning: failed to cleanup old backups: %v\n", err)
	}

	return nil
}

// cleanupOldBackups removes the oldest backup files beyond MaxBackups
func (lm *LogManager) cleanupOldBackups() error {
	if lm.config.MaxBackups <= 0 {
		return nil
	}

	logDir := filepath.Dir(lm.config.FilePath)
	logBase := filepath.Base(lm.config.FilePath)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return errors.New(ErrLogBackupReadFailed, "failed to read log directory", err)
	}

	var backups []backupInfo
	for _, entry := range entries {
		if entry.IsDir() || !isBackupFile(entry.Name(), logBase) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backupInfo{
			path:    filepath.Join(logDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.Before(backups[j].modTime)
	})

	if len(backups) > lm.config.MaxBackups {
		for _, backup := range backups[:len(backups)-lm.config.MaxBackups] {
			if err := os.Remove(backup.path); err != nil {
				return errors.New(ErrLogBackupRemoveFailed, "failed to remove old backup", err).AddContext("backup_path", backup.path)
			}
		}
	}

	return nil
}

// Close closes the log manager and any open files
func (lm *LogManager) Close() error {
	if lm.currentLog != nil {
		return lm.currentLog.Close()
	}
	return nil
}

// backupInfo holds information about a backup file
type backupInfo struct {
	path    string
	modTime time.Time
}

// isBackupFile checks if a filename is a backup of the main log file
func isBackupFile(name, baseName string) bool {
	return strings.HasPrefix(name, baseName+".")
}

// SetupLogger creates a configured zerolog logger based on the configuration
func SetupLogger(cfg *Config) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer

	if cfg.Log.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.Log.FilePath != "" {
		if cfg.Log.Cleanup {
			if err := CleanupLogFile(cfg.Log.FilePath); err != nil {
				return zerolog.Logger{}, errors.New(ErrLogCleanupFailed, "failed to cleanup log file", err)
			}
		}

		logManager := NewLogManager(&cfg.Log)
		fileWriter, err := logManager.GetWriter()
		if err != nil {
			return zerolog.Logger{}, errors.New(ErrLogFileWriterSetupFailed, "failed to setup file writer", err)
		}

		writers = append(writers, fileWriter)
	}

	var multiWriter io.Writer
	if len(writers) == 1 {
		multiWriter = writers[0]
	} else {
		multiWriter = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(multiWriter).With().
		Timestamp().
		Str("component", "sift-server").
		Logger()

	return logger, nil
}
