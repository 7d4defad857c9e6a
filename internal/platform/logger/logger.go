// Package logger provides structured logging for the life server.
// Every board mutation should be traceable through this.
package logger

import (
	"io"
	"log"
	"os"
)

// Logger provides leveled logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a new logger instance.
func NewLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "[LIFE-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[LIFE-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[LIFE-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// NewDiscardLogger creates a logger that drops everything. Used by the
// terminal front end, where log lines would corrupt the screen.
func NewDiscardLogger() *Logger {
	silent := log.New(io.Discard, "", 0)
	return &Logger{
		infoLogger:  silent,
		warnLogger:  silent,
		errorLogger: silent,
	}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Event logs a simulation event for audit purposes.
func (l *Logger) Event(eventType string, source string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Source:%s | %s", eventType, source, details)
}
