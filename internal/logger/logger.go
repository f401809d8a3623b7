package logger

import (
	"io"
	"log"
	"os"
)

const (
	fatalLabel = "[FATAL] "
	errorLabel = "[ERROR] "
	warnLabel  = "[WARN ] "
	infoLabel  = "[INFO ] "
	debugLabel = "[DEBUG] "
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// debugEnabled gates Debug output; set DEBUG to anything non-empty.
var debugEnabled = os.Getenv("DEBUG") != ""

// SetOutput redirects all log output (used by tests).
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Fatal logs with a fatal label and exits.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...interface{}) {
	std.Fatalf(fatalLabel+format, args...)
}

// Error logs with an error label.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...interface{}) {
	std.Printf(errorLabel+format, args...)
}

// Warn logs with a warn label.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...interface{}) {
	std.Printf(warnLabel+format, args...)
}

// Info logs with an info label.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...interface{}) {
	std.Printf(infoLabel+format, args...)
}

// Debug logs with a debug label when DEBUG is set in the environment.
// Arguments are handled in the manner of [fmt.Printf].
func Debug(format string, args ...interface{}) {
	if debugEnabled {
		std.Printf(debugLabel+format, args...)
	}
}
