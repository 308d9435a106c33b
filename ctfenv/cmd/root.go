// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mlctf/platform/tools/internal/logger"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var (
	explicitProjectDir string
	verbose            bool
	quiet              bool

	CmdEnv  *ProjectEnv
	RootCmd = &cobra.Command{
		Use:   "ctfenv",
		Short: "ML CTF Platform Environment Tool",
		Long:  `Provisioning and housekeeping tool for the ML CTF platform's Python environment`,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags and configuration settings.
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only enable minimal output")
	RootCmd.PersistentFlags().StringVarP(&explicitProjectDir, "project", "C", "", "path to the platform project directory")
}

func initConfig() {
	initLogging()

	projectDir, err := resolveProjectDir()
	if err != nil {
		cobra.CheckErr(err)
	}

	CmdEnv, err = NewProjectEnv(projectDir, verbose, quiet)
	if err != nil {
		cobra.CheckErr(err)
	}
}

func resolveProjectDir() (string, error) {
	if explicitProjectDir != "" {
		// Make sure there's a requirements file there.
		_, err := os.Stat(filepath.Join(explicitProjectDir, requirementsProbeName))
		if err != nil {
			return "", err
		}

		return explicitProjectDir, nil
	} else {
		// Start at the current directory, and keep going up until we find
		// what looks to be the platform project root.
		currentPath, err := filepath.Abs(".")
		if err != nil {
			return "", err
		}

		for {
			candidatePath := filepath.Join(currentPath, requirementsProbeName)

			_, err := os.Stat(candidatePath)
			if err == nil {
				return currentPath, nil
			}

			if currentPath == "/" {
				return "", fmt.Errorf("could not find platform project root (no %s found)", requirementsProbeName)
			}

			currentPath = filepath.Dir(currentPath)
		}
	}
}

func initLogging() {
	w := os.Stderr

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else if quiet {
		logLevel = slog.LevelWarn
	} else {
		logLevel = slog.LevelInfo
	}

	// set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
		}),
	))

	// Also initialize the logrus logger
	logger.InitStderrLog()
}
