// Package logging provides structured debug logging for skyorder components.
// All logs for one run are written to a session-specific file in
// ~/.skyorder/logs/, so a failed upload can be reconstructed after the
// browser window has been closed.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes timestamped, component-tagged log lines for one run.
// All log methods write unconditionally; there is no level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	// Session ID shared by every component logger in this process.
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is the directory where log files are stored.
	logDir   string
	initOnce sync.Once
	initErr  error
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			initErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}

		logDir = filepath.Join(homeDir, ".skyorder", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
	})
	return initErr
}

// NewLogger creates a logger for a specific component. The logger writes to
// ~/.skyorder/logs/<session-id>-run.log; multiple components append to the
// same file.
//
// If the log directory or file cannot be created, a fallback logger writing
// to stderr is returned along with the error, so callers can detect fallback
// mode but keep logging.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-run.log", sessID))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0), // timestamps are formatted below
		logPath:   logPath,
	}, nil
}

func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	logger.Printf("WARNING: file logging unavailable, falling back to stderr: %v", err)

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    logger,
	}
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write("DEBUG", format, v...)
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write("INFO", format, v...)
}

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write("WARN", format, v...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write("ERROR", format, v...)
}

// Writer returns the underlying writer, for handing to libraries that want
// an io.Writer for their own diagnostics.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// SessionID returns the session ID shared by all loggers in this process.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path of the log file, or "" in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Discard returns a logger that drops all output, for use in tests.
func Discard() *Logger {
	return &Logger{
		component: "discard",
		logger:    log.New(io.Discard, "", 0),
	}
}

// GetSessionID returns the current global session ID.
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the directory where logs are stored.
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
