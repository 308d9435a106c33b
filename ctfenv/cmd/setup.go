// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type setupOptions struct {
	recreate         bool
	strictPipUpgrade bool
	offline          bool
	findLinksDir     string
	pythonOverride   string
	noPause          bool
	reportJson       bool
}

var setupOpts setupOptions

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the platform's Python virtual environment",
	RunE: func(cc *cobra.Command, args []string) error {
		return runSetup(CmdEnv)
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&setupOpts.recreate, "recreate", false, "Delete any existing environment and create a fresh one")
	setupCmd.Flags().BoolVar(&setupOpts.strictPipUpgrade, "strict-pip-upgrade", false, "Treat a failed installer self-upgrade as fatal")
	setupCmd.Flags().BoolVar(&setupOpts.offline, "offline", false, "Install dependencies from a local archive directory only")
	setupCmd.Flags().StringVar(&setupOpts.findLinksDir, "find-links", "", "Directory of requirement archives used with --offline")
	setupCmd.Flags().StringVar(&setupOpts.pythonOverride, "python", "", "Path to the interpreter to provision with")
	setupCmd.Flags().BoolVar(&setupOpts.noPause, "no-pause", false, "Do not wait for acknowledgment after the success banner")
	setupCmd.Flags().BoolVar(&setupOpts.reportJson, "json", false, "Print a machine-readable result summary")
}

type setupResult struct {
	VenvDir           string `json:"venvDir"`
	Interpreter       string `json:"interpreter"`
	PythonVersion     string `json:"pythonVersion"`
	ActivationCommand string `json:"activationCommand"`
}

func runSetup(env *ProjectEnv) error {
	if setupOpts.offline && setupOpts.findLinksDir == "" {
		return fmt.Errorf("--offline requires --find-links")
	}

	provisioner, err := env.NewProvisioner()
	if err != nil {
		return err
	}

	defer provisioner.Close()

	provisioner.Recreate = setupOpts.recreate
	provisioner.Offline = setupOpts.offline
	provisioner.FindLinksDir = setupOpts.findLinksDir
	if setupOpts.strictPipUpgrade {
		provisioner.StrictPipUpgrade = true
	}
	if setupOpts.pythonOverride != "" {
		provisioner.PythonOverride = setupOpts.pythonOverride
	}

	err = provisioner.Provision()
	if err != nil {
		return err
	}

	venv := provisioner.Venv()

	color.Set(color.FgGreen, color.Bold)
	fmt.Fprintln(os.Stderr, "Environment ready!")
	color.Unset()
	fmt.Fprintf(os.Stderr, "To activate it, run:\n\n    %s\n\n", venv.ActivationCommand())

	if setupOpts.reportJson {
		interp := provisioner.Interpreter()
		err = ReportResult(setupResult{
			VenvDir:           venv.Dir,
			Interpreter:       interp.Path,
			PythonVersion:     interp.Version.String(),
			ActivationCommand: venv.ActivationCommand(),
		})
		if err != nil {
			return err
		}
	}

	if !setupOpts.noPause {
		pauseForAcknowledgment()
	}

	return nil
}

// pauseForAcknowledgment blocks until the user presses Enter, but only when
// stdin is an interactive terminal.
func pauseForAcknowledgment() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}

	fmt.Fprint(os.Stderr, "Press Enter to continue...")
	bufio.NewReader(os.Stdin).ReadString('\n')
}
