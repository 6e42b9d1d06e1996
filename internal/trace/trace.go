// Package trace is the leveled console diagnostics used across the checker.
// Verbosity runs from 0 (total silence, even for errors) to 5 (full
// diagnostics). The default level prints results and errors only.
package trace

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Level is a diagnostic verbosity level. Output at a given level is printed
// only when the configured level is at or above it.
type Level int

const (
	Silent Level = iota
	Error
	Warning
	Message
	Verbose
	Debug
)

var current = Message

// SetLevel configures the global verbosity. Values outside the valid range
// are clamped.
func SetLevel(l Level) {
	if l < Silent {
		l = Silent
	}
	if l > Debug {
		l = Debug
	}
	current = l
}

// CurrentLevel returns the configured verbosity.
func CurrentLevel() Level {
	return current
}

// Enabled returns whether output at level l would be printed.
func Enabled(l Level) bool {
	return current >= l
}

// Errorf prints an error diagnostic to stderr.
func Errorf(format string, a ...interface{}) {
	if current >= Error {
		fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", a...)
	}
}

// Warnf prints a warning diagnostic to stderr.
func Warnf(format string, a ...interface{}) {
	if current >= Warning {
		fmt.Fprintf(os.Stderr, "WARNING: "+format+"\n", a...)
	}
}

// Messagef prints a user-facing message to stdout.
func Messagef(format string, a ...interface{}) {
	if current >= Message {
		fmt.Printf(format+"\n", a...)
	}
}

// Verbosef prints a detailed progress message to stdout.
func Verbosef(format string, a ...interface{}) {
	if current >= Verbose {
		fmt.Printf(format+"\n", a...)
	}
}

// Debugf prints an engine-internal diagnostic to stdout.
func Debugf(format string, a ...interface{}) {
	if current >= Debug {
		fmt.Printf(format+"\n", a...)
	}
}

// Fatalf prints an error diagnostic and exits with status 1.
func Fatalf(format string, a ...interface{}) {
	if current >= Error {
		fmt.Fprintf(os.Stderr, "FATAL: "+format+"\n", a...)
	}
	os.Exit(1)
}

// Good renders s in the color used for positive verdicts. Coloring is
// suppressed when the output is not a terminal or NO_COLOR is set.
func Good(s string) string {
	return color.GreenString("%s", s)
}

// Bad renders s in the color used for negative verdicts.
func Bad(s string) string {
	return color.RedString("%s", s)
}
