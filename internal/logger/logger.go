package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

// Log levels
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// levelColors maps log levels to ANSI color codes
var levelColors = map[LogLevel]string{
	DEBUG: "\033[36m", // Cyan
	INFO:  "\033[32m", // Green
	WARN:  "\033[33m", // Yellow
	ERROR: "\033[31m", // Red
	FATAL: "\033[35m", // Magenta
}

// levelPrefixes maps log levels to text prefixes
var levelPrefixes = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO ",
	WARN:  "WARN ",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

func (l LogLevel) String() string {
	return strings.TrimSpace(levelPrefixes[l])
}

// ParseLevel converts a level name to a LogLevel. Unknown names yield INFO
// and an error.
func ParseLevel(levelStr string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", levelStr)
	}
}

// Logger is a leveled logger that tags each line with time, level and caller
type Logger struct {
	mu        sync.Mutex
	level     LogLevel
	logger    *log.Logger
	file      *os.File
	useColors bool
	exit      func(int)
}

// NewLogger creates a console logger with the specified log level.
// It writes to stderr; stdout is reserved for rendered frames.
func NewLogger(levelStr string) *Logger {
	level, _ := ParseLevel(levelStr)

	l := &Logger{
		level:     level,
		logger:    log.New(os.Stderr, "", 0), // prefix is formatted per line
		useColors: isTerminal(os.Stderr),
		exit:      os.Exit,
	}
	return l
}

// New creates a logger writing to w without colors
func New(w io.Writer, levelStr string) *Logger {
	l := NewLogger(levelStr)
	l.logger.SetOutput(w)
	l.useColors = false
	return l
}

// NewFileLogger creates a new logger that writes to a file
func NewFileLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}

	l := New(file, levelStr)
	l.file = file
	return l, nil
}

// NewMultiLogger creates a logger that writes to both stderr and a file.
// Stderr keeps stdout free for the rendered frame.
func NewMultiLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}

	l := New(io.MultiWriter(os.Stderr, file), levelStr)
	l.file = file
	return l, nil
}

func openLogFile(filePath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// output writes msg at level. depth is the number of frames between the
// public method and this function.
func (l *Logger) output(level LogLevel, depth int, msg string) {
	l.mu.Lock()
	if level < l.level {
		l.mu.Unlock()
		return
	}

	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		file = "unknown"
		line = 0
	}

	now := time.Now().Format("2006/01/02 15:04:05")
	prefix := fmt.Sprintf("%s [%s] %s:%d:", now, levelPrefixes[level], filepath.Base(file), line)
	if l.useColors {
		prefix = levelColors[level] + prefix + "\033[0m"
	}

	l.logger.Println(prefix, msg)
	l.mu.Unlock()

	if level == FATAL {
		l.Close()
		l.exit(1)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(v ...interface{}) { l.output(DEBUG, 2, fmt.Sprint(v...)) }

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output(DEBUG, 2, fmt.Sprintf(format, v...))
}

// Info logs an info message
func (l *Logger) Info(v ...interface{}) { l.output(INFO, 2, fmt.Sprint(v...)) }

// Infof logs a formatted info message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.output(INFO, 2, fmt.Sprintf(format, v...))
}

// Warn logs a warning message
func (l *Logger) Warn(v ...interface{}) { l.output(WARN, 2, fmt.Sprint(v...)) }

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(WARN, 2, fmt.Sprintf(format, v...))
}

// Error logs an error message
func (l *Logger) Error(v ...interface{}) { l.output(ERROR, 2, fmt.Sprint(v...)) }

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output(ERROR, 2, fmt.Sprintf(format, v...))
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(v ...interface{}) { l.output(FATAL, 2, fmt.Sprint(v...)) }

// Fatalf logs a formatted fatal message and exits the program
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.output(FATAL, 2, fmt.Sprintf(format, v...))
}

// Printf logs at INFO so the logger can stand in for log.Logger
func (l *Logger) Printf(format string, v ...interface{}) {
	l.output(INFO, 2, fmt.Sprintf(format, v...))
}

// SetLevel sets the log level
func (l *Logger) SetLevel(levelStr string) error {
	level, err := ParseLevel(levelStr)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
	return err
}

// Level returns the current level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.level
}

// SetOutput sets the output writer for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.SetOutput(w)
}

// EnableColors enables or disables colored output
func (l *Logger) EnableColors(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.useColors = enable
}

// Close closes the logger's file if it exists
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
