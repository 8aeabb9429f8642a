// Package logger provides leveled diagnostic logging for helmsman.
// Debug and info messages trace the routing pipeline and are shown
// only with the --verbose flag; warnings always reach stderr because
// they usually mean a backend is degraded.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables debug and info output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
// Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes a tagged line. Callers must hold mu for reading.
func emit(tag, format string, args ...any) {
	fmt.Fprintf(output, tag+" "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		emit("[DEBUG]", format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		emit("[INFO]", format, args...)
	}
}

// Warn prints a warning message. Warnings are printed regardless of
// verbose mode; a silent degraded backend is worse than a noisy one.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	emit("[WARN]", format, args...)
}
