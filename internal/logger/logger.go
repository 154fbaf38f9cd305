package logger

import (
	"github.com/fatih/color" // Colored console output for log levels
)

// Colorized printing functions for each log level. These are package-level
// variables holding functions that behave like fmt.Printf, but with text
// colored appropriately for the level.

// Info logs informational messages in green color.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It is assigned dynamically during Init based on the debug flag.
var Debug func(format string, a ...any)

// Init initializes the logger package, enabling or disabling debug logging.
// When enabled, Debug prints messages in cyan color.
// When disabled, Debug is a no-op that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
