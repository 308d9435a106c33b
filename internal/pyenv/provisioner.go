// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package pyenv provisions the platform's Python virtual environment: it
// locates a suitable interpreter, creates the environment, upgrades the
// package installer, and installs the declared dependencies.
package pyenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mlctf/platform/tools/internal/filelock"
	"github.com/mlctf/platform/tools/internal/logger"
)

const (
	// DefaultVenvDirName is the environment directory created beside the
	// requirements file.
	DefaultVenvDirName = "venv"

	// DefaultRequirementsFilename is the dependency manifest consumed by
	// the package installer.
	DefaultRequirementsFilename = "requirements.txt"

	lockFilename = ".ctfenv.lock"
)

// Provisioner drives the provisioning pipeline for one project directory.
// The zero value is not usable; construct with New.
type Provisioner struct {
	ProjectDir       string
	VenvDir          string
	RequirementsPath string

	// PythonOverride, when set, is used instead of probing the search path.
	PythonOverride string
	Candidates     []string
	MinVersion     Version

	// StrictPipUpgrade promotes installer self-upgrade failures to fatal.
	StrictPipUpgrade bool

	// Recreate deletes an existing environment before creating a new one.
	Recreate bool

	// Offline makes dependency installation use only archives found under
	// FindLinksDir instead of reaching out to the package index.
	Offline      bool
	FindLinksDir string

	// Quiet trims the installer's progress output.
	Quiet bool

	// Process hooks; tests substitute stubs here.
	LookPath      func(name string) (string, error)
	RunCommand    func(cmd *exec.Cmd) error
	CommandOutput func(cmd *exec.Cmd) ([]byte, error)

	interpreter *Interpreter
	lock        *filelock.FileLock
}

// New returns a provisioner with defaults for the given project directory.
func New(projectDir string) *Provisioner {
	return &Provisioner{
		ProjectDir:       projectDir,
		VenvDir:          filepath.Join(projectDir, DefaultVenvDirName),
		RequirementsPath: filepath.Join(projectDir, DefaultRequirementsFilename),
		Candidates:       DefaultInterpreterCandidates,
		MinVersion:       MinSupportedVersion,
		LookPath:         exec.LookPath,
		RunCommand:       func(cmd *exec.Cmd) error { return cmd.Run() },
		CommandOutput:    func(cmd *exec.Cmd) ([]byte, error) { return cmd.CombinedOutput() },
	}
}

// Venv returns the environment this provisioner targets.
func (p *Provisioner) Venv() Venv {
	return Venv{Dir: p.VenvDir}
}

// Interpreter returns the interpreter located by the pipeline, if any.
func (p *Provisioner) Interpreter() *Interpreter {
	return p.interpreter
}

// FindInterpreter probes for an interpreter satisfying the minimum version.
// It has no filesystem side effects.
func (p *Provisioner) FindInterpreter() (*Interpreter, error) {
	candidates := p.Candidates
	if p.PythonOverride != "" {
		candidates = []string{p.PythonOverride}
	}

	for _, candidate := range candidates {
		resolvedPath, err := p.LookPath(candidate)
		if err != nil {
			logger.Log.Debugf("interpreter candidate '%s' not found on search path", candidate)
			continue
		}

		version, err := p.interpreterVersion(resolvedPath)
		if err != nil {
			logger.Log.Warnf("failed to query version of '%s': %v", resolvedPath, err)
			continue
		}

		if !version.AtLeast(p.MinVersion) {
			logger.Log.Warnf("skipping interpreter '%s': version %s is older than required %s", resolvedPath, version, p.MinVersion)
			continue
		}

		return &Interpreter{Path: resolvedPath, Version: version}, nil
	}

	return nil, &MissingInterpreterError{Candidates: candidates, MinVersion: p.MinVersion}
}

// CreateEnv creates the virtual environment using the given interpreter.
// An existing environment is reused unless Recreate is set.
func (p *Provisioner) CreateEnv(interp *Interpreter) error {
	venv := p.Venv()

	if venv.Exists() {
		if !p.Recreate {
			logger.Log.Infof("reusing existing virtual environment at '%s'", venv.Dir)
			return nil
		}

		logger.Log.Infof("removing existing virtual environment at '%s'", venv.Dir)
		err := os.RemoveAll(venv.Dir)
		if err != nil {
			return &EnvCreateError{Path: venv.Dir, Err: err}
		}
	}

	cmd := exec.Command(interp.Path, "-m", "venv", venv.Dir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := p.RunCommand(cmd)
	if err != nil {
		return &EnvCreateError{Path: venv.Dir, Err: err}
	}

	return nil
}

// UpgradeInstaller upgrades the environment-scoped package installer to the
// latest version, with verbose output suppressed.
func (p *Provisioner) UpgradeInstaller() error {
	cmd := exec.Command(p.Venv().Pip(), "install", "--upgrade", "pip", "--quiet")
	cmd.Stderr = os.Stderr

	err := p.RunCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to upgrade package installer: %w", err)
	}

	return nil
}

// InstallRequirements installs the declared dependencies into the
// environment.
func (p *Provisioner) InstallRequirements() error {
	args := []string{"install", "-r", p.RequirementsPath}
	if p.Quiet {
		args = append(args, "--quiet")
	}
	if p.Offline {
		args = append(args, "--no-index", "--find-links", p.FindLinksDir)
	}

	cmd := exec.Command(p.Venv().Pip(), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := p.RunCommand(cmd)
	if err != nil {
		return &InstallError{RequirementsPath: p.RequirementsPath, Err: err}
	}

	return nil
}

// Steps returns the ordered provisioning pipeline.
func (p *Provisioner) Steps() []Step {
	return []Step{
		{
			Name: "locate interpreter",
			Run: func() error {
				interp, err := p.FindInterpreter()
				if err != nil {
					return err
				}

				logger.Log.Infof("using interpreter '%s' (Python %s)", interp.Path, interp.Version)
				p.interpreter = interp
				return nil
			},
		},
		{
			Name: "acquire project lock",
			Run:  p.acquireLock,
		},
		{
			Name: "create virtual environment",
			Run: func() error {
				return p.CreateEnv(p.interpreter)
			},
		},
		{
			Name:     "upgrade package installer",
			NonFatal: !p.StrictPipUpgrade,
			Run:      p.UpgradeInstaller,
		},
		{
			Name: "install dependencies",
			Run:  p.InstallRequirements,
		},
	}
}

// Provision runs the full pipeline. Call Close afterwards to release the
// project lock.
func (p *Provisioner) Provision() error {
	return RunSteps(p.Steps())
}

// Close releases the project lock, if held.
func (p *Provisioner) Close() error {
	if p.lock == nil {
		return nil
	}

	p.lock.Unlock()
	err := p.lock.Close()
	p.lock = nil
	return err
}

func (p *Provisioner) acquireLock() error {
	lockPath := filepath.Join(p.ProjectDir, lockFilename)

	lock, err := filelock.NewLock(lockPath)
	if err != nil {
		return err
	}

	acquired, err := lock.TryLockExclusive()
	if err != nil {
		lock.Close()
		return err
	}

	if !acquired {
		lock.Close()
		return &LockBusyError{LockPath: lockPath}
	}

	p.lock = lock
	return nil
}

func (p *Provisioner) interpreterVersion(interpreterPath string) (Version, error) {
	cmd := exec.Command(interpreterPath, "--version")

	output, err := p.CommandOutput(cmd)
	if err != nil {
		return Version{}, err
	}

	return ParseVersionOutput(string(output))
}
