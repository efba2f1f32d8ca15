package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

var tags = map[string]string{
	"debug": color.New(color.FgHiBlack).Sprint("[DEBUG]"),
	"info":  color.New(color.FgCyan).Sprint("[INFO]"),
	"warn":  color.New(color.FgYellow).Sprint("[WARN]"),
	"error": color.New(color.FgRed, color.Bold).Sprint("[ERROR]"),
}

type implLogger struct {
	logger *log.Logger
	level  string
}

// New creates a Logger writing to stderr, so stdout stays free for results.
func New(level string) Logger {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput creates a Logger writing to w
func NewWithOutput(level string, w io.Writer) Logger {
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  strings.ToLower(level),
	}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return NewWithOutput("error", io.Discard)
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) print(level, msg string, args []interface{}) {
	if l.shouldLog(level) {
		l.logger.Printf(tags[level]+" "+msg, args...)
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.print("debug", msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.print("info", msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.print("warn", msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.print("error", msg, args)
}
