// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package pyenv

import (
	"fmt"
	"strings"
)

// MissingInterpreterError indicates that no suitable Python interpreter
// could be found on the search path.
type MissingInterpreterError struct {
	Candidates []string
	MinVersion Version
}

func (e *MissingInterpreterError) Error() string {
	return fmt.Sprintf(
		"could not find a suitable python interpreter (tried: %s); Python %s or newer is required",
		strings.Join(e.Candidates, ", "), e.MinVersion)
}

// EnvCreateError indicates that virtual environment creation failed.
type EnvCreateError struct {
	Path string
	Err  error
}

func (e *EnvCreateError) Error() string {
	return fmt.Sprintf("failed to create virtual environment at '%s': %v", e.Path, e.Err)
}

func (e *EnvCreateError) Unwrap() error {
	return e.Err
}

// InstallError indicates that installing the declared dependencies failed.
type InstallError struct {
	RequirementsPath string
	Err              error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install dependencies from '%s': %v", e.RequirementsPath, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// LockBusyError indicates another provisioning run holds the project lock.
type LockBusyError struct {
	LockPath string
}

func (e *LockBusyError) Error() string {
	return fmt.Sprintf("another provisioning run is already in progress (lock held on '%s')", e.LockPath)
}
