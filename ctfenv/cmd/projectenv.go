// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package cmd

import (
	"os"
	"path/filepath"

	"github.com/mlctf/platform/tools/ctfenv/utils"
	"github.com/mlctf/platform/tools/internal/pyenv"
)

const requirementsProbeName = pyenv.DefaultRequirementsFilename

// PythonOverrideEnvVar names the environment variable that forces a
// specific interpreter, taking precedence over the project config.
const PythonOverrideEnvVar = "CTFENV_PYTHON"

type ProjectEnv struct {
	ProjectDir       string
	VenvDir          string
	RequirementsPath string
	Config           *utils.EnvConfig

	verbose bool
	quiet   bool
}

func NewProjectEnv(projectDir string, verbose bool, quiet bool) (*ProjectEnv, error) {
	config, err := utils.LoadEnvConfig(projectDir)
	if err != nil {
		return nil, err
	}

	return &ProjectEnv{
		ProjectDir:       projectDir,
		VenvDir:          filepath.Join(projectDir, config.VenvDir),
		RequirementsPath: filepath.Join(projectDir, config.RequirementsFile),
		Config:           config,

		verbose: verbose,
		quiet:   quiet,
	}, nil
}

// Venv returns the environment this project provisions into.
func (env *ProjectEnv) Venv() pyenv.Venv {
	return pyenv.Venv{Dir: env.VenvDir}
}

// NewProvisioner builds a pipeline for this project, applying config and
// environment overrides.
func (env *ProjectEnv) NewProvisioner() (*pyenv.Provisioner, error) {
	p := pyenv.New(env.ProjectDir)
	p.VenvDir = env.VenvDir
	p.RequirementsPath = env.RequirementsPath
	p.StrictPipUpgrade = env.Config.StrictPipUpgrade
	p.Quiet = env.quiet

	if override := os.Getenv(PythonOverrideEnvVar); override != "" {
		p.PythonOverride = override
	} else if env.Config.Python != "" {
		p.PythonOverride = env.Config.Python
	}

	if env.Config.MinPythonVersion != "" {
		minVersion, err := pyenv.ParseVersion(env.Config.MinPythonVersion)
		if err != nil {
			return nil, err
		}

		p.MinVersion = minVersion
	}

	return p, nil
}
