package logger

import (
	"log"
	"os"
)

// Level represents different logging verbosity levels
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled logging
type Logger struct {
	level Level
}

// New creates a new logger with the specified level
func New(level Level) *Logger {
	return &Logger{level: level}
}

// NewDefault creates a logger based on LOG_LEVEL environment variable
func NewDefault() *Logger {
	level := LevelInfo // default
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		switch levelStr {
		case "ERROR":
			level = LevelError
		case "WARN":
			level = LevelWarn
		case "INFO":
			level = LevelInfo
		case "DEBUG":
			level = LevelDebug
		}
	}
	return &Logger{level: level}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Default is the package-level logger instance
var Default = NewDefault()
