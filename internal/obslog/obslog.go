// Package obslog provides the leveled logger the analysis core uses for
// stage transitions, eligibility aborts, and numerical-degeneracy warnings.
// It never logs on the per-tick likelihood path: that would defeat the
// O(N+Q) design the recursive state exists for.
package obslog

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level is a logging severity.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger is a leveled wrapper around the standard logger.
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger = &Logger{level: InfoLevel, logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)}

// Init replaces the default logger with one at the given level.
// Unrecognized levels fall back to InfoLevel.
func Init(level string) {
	defaultLogger = &Logger{level: parseLevel(level), logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)}
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l *Logger) log(level Level, tag, format string, args ...interface{}) {
	if l.level > level {
		return
	}
	msg := fmt.Sprintf(tag+" "+format, args...)
	_ = l.logger.Output(3, msg)
}

func Debug(format string, args ...interface{}) { defaultLogger.log(DebugLevel, "[DEBUG]", format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.log(InfoLevel, "[INFO]", format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.log(WarnLevel, "[WARN]", format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.log(ErrorLevel, "[ERROR]", format, args...) }
