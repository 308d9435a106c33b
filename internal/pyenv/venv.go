// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package pyenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Venv describes a virtual environment directory.
type Venv struct {
	Dir string
}

// Exists reports whether the directory holds a created environment.
func (v Venv) Exists() bool {
	_, err := os.Stat(filepath.Join(v.Dir, "pyvenv.cfg"))
	return err == nil
}

// BinDir returns the directory holding the environment-scoped executables.
func (v Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts")
	}

	return filepath.Join(v.Dir, "bin")
}

// Python returns the path of the environment-scoped interpreter.
func (v Venv) Python() string {
	return filepath.Join(v.BinDir(), exeName("python"))
}

// Pip returns the path of the environment-scoped package installer.
func (v Venv) Pip() string {
	return filepath.Join(v.BinDir(), exeName("pip"))
}

// ActivationCommand returns the shell command a user runs to activate the
// environment.
func (v Venv) ActivationCommand() string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("%s\\Scripts\\activate", v.Dir)
	}

	return fmt.Sprintf("source %s/bin/activate", v.Dir)
}

func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}

	return name
}
