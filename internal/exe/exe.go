// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package exe holds flag definitions shared by the standalone tools.
package exe

import (
	"gopkg.in/alecthomas/kingpin.v2"
)

// ToolkitVersion is stamped at build time via -ldflags.
var ToolkitVersion = ""

// LogFileFlag registers the standard log file flag on the given app.
func LogFileFlag(app *kingpin.Application) *string {
	return app.Flag("log-file", "Path to the file where to write the tool's log.").String()
}

// LogLevelFlag registers the standard log level flag on the given app.
func LogLevelFlag(app *kingpin.Application) *string {
	return app.Flag("log-level", "Minimum log level of the tool's log.").Enum("panic", "fatal", "error", "warn", "info", "debug", "trace")
}
