// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package logger wraps logrus for use by the toolkit's internal packages
// and standalone tools.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance.
var Log = logrus.New()

const defaultLogLevel = logrus.InfoLevel

// InitStderrLog initializes the logger to write to stderr at the default level.
func InitStderrLog() {
	Log.SetOutput(os.Stderr)
	Log.SetLevel(defaultLogLevel)
}

// InitBestEffort initializes the logger from the given file path and level
// name, falling back to stderr defaults on any problem.
func InitBestEffort(logFile, levelName string) {
	InitStderrLog()

	if levelName != "" {
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			Log.Warnf("invalid log level '%s', using default", levelName)
		} else {
			Log.SetLevel(level)
		}
	}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			Log.Warnf("failed to open log file '%s': %v", logFile, err)
			return
		}

		Log.SetOutput(io.MultiWriter(os.Stderr, file))
	}
}

// PanicOnError logs and panics if err is non-nil. An optional format string
// and args override the logged message.
func PanicOnError(err error, args ...interface{}) {
	if err == nil {
		return
	}

	if len(args) > 0 {
		format := args[0].(string)
		Log.Errorf(format, args[1:]...)
	} else {
		Log.Error(err)
	}

	panic(err)
}
