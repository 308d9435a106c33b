// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilename is the optional project config file read from the project
// root.
const ConfigFilename = "ctfenv.yaml"

// EnvConfig configures provisioning for one project. All fields have
// working defaults; an absent config file is fine.
type EnvConfig struct {
	// VenvDir is the environment directory name, relative to the project root.
	VenvDir string `yaml:"venvDir" json:"venvDir,omitempty"`

	// RequirementsFile is the dependency manifest name, relative to the
	// project root.
	RequirementsFile string `yaml:"requirementsFile" json:"requirementsFile,omitempty"`

	// Python optionally pins the interpreter used to create the environment.
	Python string `yaml:"python" json:"python,omitempty"`

	// MinPythonVersion is the oldest acceptable interpreter, e.g. "3.9".
	MinPythonVersion string `yaml:"minPythonVersion" json:"minPythonVersion,omitempty"`

	// StrictPipUpgrade makes a failed installer self-upgrade fatal.
	StrictPipUpgrade bool `yaml:"strictPipUpgrade" json:"strictPipUpgrade,omitempty"`

	App AppConfig `yaml:"app" json:"app,omitempty"`

	// Datasets lists evaluation datasets fetched by `ctfenv download datasets`.
	Datasets []Dataset `yaml:"datasets" json:"datasets,omitempty"`
}

// AppConfig describes how to launch the platform app out of the
// provisioned environment.
type AppConfig struct {
	Module string `yaml:"module" json:"module,omitempty"`
	Host   string `yaml:"host" json:"host,omitempty"`
	Port   int    `yaml:"port" json:"port,omitempty"`
}

// Dataset is one downloadable evaluation dataset.
type Dataset struct {
	Name string `yaml:"name" json:"name"`
	Uri  string `yaml:"uri" json:"uri"`
	Path string `yaml:"path" json:"path"`
}

// DefaultEnvConfig returns the configuration used when no config file is
// present.
func DefaultEnvConfig() *EnvConfig {
	return &EnvConfig{
		VenvDir:          "venv",
		RequirementsFile: "requirements.txt",
		App: AppConfig{
			Module: "main:app",
			Host:   "127.0.0.1",
			Port:   8000,
		},
	}
}

// LoadEnvConfig reads the project config from projectDir, applying defaults
// for anything unset. A missing config file yields the defaults.
func LoadEnvConfig(projectDir string) (*EnvConfig, error) {
	config := DefaultEnvConfig()

	configPath := filepath.Join(projectDir, ConfigFilename)
	configBytes, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	} else if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(configBytes, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", configPath, err)
	}

	if config.VenvDir == "" {
		config.VenvDir = "venv"
	}
	if config.RequirementsFile == "" {
		config.RequirementsFile = "requirements.txt"
	}

	return config, nil
}
