// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var runHost string
var runPort int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the platform app from the provisioned environment",
	RunE: func(cc *cobra.Command, args []string) error {
		return runApp(CmdEnv)
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runHost, "host", "", "Host to bind the app to")
	runCmd.Flags().IntVar(&runPort, "port", 0, "Port to bind the app to")
}

func runApp(env *ProjectEnv) error {
	venv := env.Venv()

	if !venv.Exists() {
		return fmt.Errorf("no virtual environment found at '%s'; run 'ctfenv setup' first", venv.Dir)
	}

	host := env.Config.App.Host
	if runHost != "" {
		host = runHost
	}

	port := env.Config.App.Port
	if runPort != 0 {
		port = runPort
	}

	appModule := env.Config.App.Module

	slog.Info("Launching app", "module", appModule, "host", host, "port", port)

	appCmd := exec.Command(venv.Python(), "-m", "uvicorn", appModule,
		"--host", host,
		"--port", fmt.Sprintf("%d", port))
	appCmd.Dir = env.ProjectDir
	appCmd.Stdin = os.Stdin
	appCmd.Stdout = os.Stdout
	appCmd.Stderr = os.Stderr

	return appCmd.Run()
}
