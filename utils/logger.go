package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger provides leveled logging throughout the dashboard.
type Logger struct {
	info    *log.Logger
	warn    *log.Logger
	err     *log.Logger
	debug   *log.Logger
	verbose bool
	now     func() time.Time
}

// NewLogger creates a Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return newLogger(os.Stdout, os.Stderr)
}

// NewLoggerTo sends every level to w.
func NewLoggerTo(w io.Writer) *Logger {
	return newLogger(w, w)
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewLoggerTo(io.Discard)
}

func newLogger(out, errOut io.Writer) *Logger {
	return &Logger{
		info:  log.New(out, "", 0),
		warn:  log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
		debug: log.New(out, "", 0),
		now:   time.Now,
	}
}

// SetDebug enables or disables Debug output.
func (l *Logger) SetDebug(on bool) {
	l.verbose = on
}

func (l *Logger) timestamp() string {
	return l.now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Print(l.line("\033[32mINFO\033[0m ", format, args))
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Print(l.line("\033[33mWARN\033[0m ", format, args))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Print(l.line("\033[31mERROR\033[0m", format, args))
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.debug.Print(l.line("\033[36mDEBUG\033[0m", format, args))
}

func (l *Logger) line(level, format string, args []any) string {
	return fmt.Sprintf("[%s] %s %s\n", l.timestamp(), level, fmt.Sprintf(format, args...))
}
