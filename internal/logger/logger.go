package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Level represents the log level
type Level int

const (
	LevelDebug    Level = iota // Debug information (only shown with --verbose)
	LevelInfo                  // Important steps
	LevelDispatch              // Function dispatch related
	LevelModel                 // Model response
	LevelError                 // Error messages
)

// ANSI color codes for terminal output
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorGray    = "\033[90m"
	ColorBold    = "\033[1m"
)

// Logger provides structured logging for the SDK
type Logger struct {
	writer    io.Writer
	level     Level
	showTime  bool
	colorMode bool
}

// NewLogger creates a new Logger instance
func NewLogger(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{
		writer:    w,
		level:     level,
		showTime:  true,
		colorMode: true,
	}
}

// SetColorMode enables or disables colored output
func (l *Logger) SetColorMode(enabled bool) {
	l.colorMode = enabled
}

// SetShowTime enables or disables timestamp display
func (l *Logger) SetShowTime(enabled bool) {
	l.showTime = enabled
}

// Debug logs debug information (only shown in verbose mode)
func (l *Logger) Debug(format string, args ...any) {
	if l.level <= LevelDebug {
		l.log(ColorGray, "DEBUG", format, args...)
	}
}

// Info logs general information
func (l *Logger) Info(format string, args ...any) {
	if l.level <= LevelInfo {
		l.log(ColorBlue, "INFO", format, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...any) {
	l.log(ColorRed, "ERROR", format, args...)
}

// ModelResponse logs the model's reply with structured formatting
func (l *Logger) ModelResponse(content string) {
	if l.level <= LevelModel {
		l.printSection(ColorGreen, "Model Response", content)
	}
}

// FunctionCall logs a dispatched function call with its raw arguments
func (l *Logger) FunctionCall(name string, arguments string) {
	if l.level <= LevelDispatch {
		l.printSection(ColorCyan, fmt.Sprintf("Function Call: %s", name), l.formatJSON(arguments))
	}
}

// FunctionResult logs a dispatch outcome
func (l *Logger) FunctionResult(name string, success bool, detail string, duration time.Duration) {
	if l.level > LevelDispatch {
		return
	}

	status := "OK"
	color := ColorGreen
	if !success {
		status = "FAILED"
		color = ColorRed
	}

	const maxLength = 500
	if len(detail) > maxLength {
		detail = detail[:maxLength] + "..."
	}

	header := fmt.Sprintf("Function Result: %s [%s] (%s)", name, status, duration.Round(time.Millisecond))
	if detail == "" {
		l.log(color, "DISPATCH", "%s", header)
		return
	}
	l.printSection(color, header, detail)
}

// SessionStart logs the beginning of a conversation session
func (l *Logger) SessionStart(query string) {
	l.printBanner(ColorCyan, "Session Started", query)
}

// SessionEnd logs the completion of a session with statistics
func (l *Logger) SessionEnd(duration time.Duration, dispatchCount int) {
	summary := fmt.Sprintf("Duration: %s | Function Calls: %d", duration.Round(time.Millisecond), dispatchCount)
	l.printBanner(ColorGreen, "Session Completed", summary)
}

// log is the core logging method
func (l *Logger) log(color, level, format string, args ...any) {
	timestamp := ""
	if l.showTime {
		timestamp = time.Now().Format("15:04:05") + " "
	}

	msg := fmt.Sprintf(format, args...)

	if l.colorMode {
		fmt.Fprintf(l.writer, "%s%s[%s]%s %s\n",
			color, timestamp, level, ColorReset, msg)
	} else {
		fmt.Fprintf(l.writer, "%s[%s] %s\n", timestamp, level, msg)
	}
}

// printSection prints a formatted section with header and content
func (l *Logger) printSection(color, header, content string) {
	separator := strings.Repeat("─", 60)

	if l.colorMode {
		fmt.Fprintf(l.writer, "\n%s%s%s%s\n", ColorBold, color, header, ColorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", color, separator, ColorReset)
		fmt.Fprintf(l.writer, "%s\n", content)
		fmt.Fprintf(l.writer, "%s%s%s\n\n", color, separator, ColorReset)
	} else {
		fmt.Fprintf(l.writer, "\n%s\n%s\n%s\n%s\n\n", header, separator, content, separator)
	}
}

// printBanner prints a prominent banner for session start/end
func (l *Logger) printBanner(color, title, subtitle string) {
	separator := strings.Repeat("═", 70)

	if l.colorMode {
		fmt.Fprintf(l.writer, "\n%s%s%s%s\n", ColorBold, color, separator, ColorReset)
		fmt.Fprintf(l.writer, "%s%s  %s%s\n", ColorBold, color, title, ColorReset)
		fmt.Fprintf(l.writer, "%s  %s%s\n", color, subtitle, ColorReset)
		fmt.Fprintf(l.writer, "%s%s%s%s\n\n", ColorBold, color, separator, ColorReset)
	} else {
		fmt.Fprintf(l.writer, "\n%s\n  %s\n  %s\n%s\n\n", separator, title, subtitle, separator)
	}
}

// formatJSON pretty-prints a JSON payload, falling back to the raw string
func (l *Logger) formatJSON(raw string) string {
	if raw == "" {
		return "{}"
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return raw
	}
	return string(pretty)
}
