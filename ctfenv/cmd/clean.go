// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the provisioned virtual environment",
	RunE: func(cc *cobra.Command, args []string) error {
		return cleanEnv(CmdEnv)
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Dry run only (don't actually remove anything)")
}

func cleanEnv(env *ProjectEnv) error {
	venv := env.Venv()

	if !venv.Exists() {
		slog.Info("No virtual environment to remove", "dir", venv.Dir)
		return nil
	}

	if cleanDryRun {
		slog.Info("Dry run; would remove virtual environment", "dir", venv.Dir)
		return nil
	}

	slog.Info("Removing virtual environment", "dir", venv.Dir)

	return os.RemoveAll(venv.Dir)
}
