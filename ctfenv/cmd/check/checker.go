package check

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mlctf/platform/tools/ctfenv/cmd"
	"github.com/spf13/cobra"
)

type CheckStatus int

const (
	CheckSucceeded     CheckStatus = iota
	CheckFailed        CheckStatus = iota
	CheckSkipped       CheckStatus = iota
	CheckInternalError CheckStatus = iota
)

type CheckResult struct {
	// Required
	Status CheckStatus

	// Optional
	Subject string
	Error   error
}

// EnvChecker verifies one aspect of the platform environment.
type EnvChecker interface {
	Name() string
	Description() string
	Check(env *cmd.ProjectEnv) []CheckResult
}

var registeredEnvCheckers []EnvChecker

func registerChecker(checker EnvChecker) {
	registeredEnvCheckers = append(registeredEnvCheckers, checker)

	checkerCmd := &cobra.Command{
		Use:   checker.Name(),
		Short: checker.Description(),
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("invalid usage")
			}

			return runChecker(checker)
		},
		SilenceUsage: true,
	}

	checkCmd.AddCommand(checkerCmd)
}

func runChecker(checker EnvChecker) error {
	slog.Debug("Running checker", "checker", checker.Name())

	results := checker.Check(cmd.CmdEnv)

	return reportCheckerResults(checker, results)
}

func reportCheckerResults(checker EnvChecker, results []CheckResult) error {
	color.Set(color.Underline, color.Italic)
	fmt.Fprintf(os.Stderr, "Check: %s\n", checker.Name())
	color.Unset()

	var err error
	for _, result := range results {
		returnError := false

		subjectToDisplay := result.Subject
		if subjectToDisplay == "" {
			subjectToDisplay = "(environment)"
		}

		switch result.Status {
		case CheckSucceeded:
			fmt.Fprintf(os.Stderr, "✅ PASS: %s\n", subjectToDisplay)
		case CheckFailed:
			if result.Error != nil {
				fmt.Fprintf(os.Stderr, "❌ FAIL: %s (%v)\n", subjectToDisplay, result.Error)
			} else {
				fmt.Fprintf(os.Stderr, "❌ FAIL: %s\n", subjectToDisplay)
			}
			returnError = true
		case CheckSkipped:
			fmt.Fprintf(os.Stderr, "⏩ SKIPPED: %s\n", subjectToDisplay)
		case CheckInternalError:
			fmt.Fprintf(os.Stderr, "⛔ INTERNAL ERROR: %s (%v)\n", subjectToDisplay, result.Error)
			returnError = true
		}

		if returnError && err == nil {
			err = fmt.Errorf("one or more checks failed")
		}
	}

	fmt.Fprintf(os.Stderr, "\n")

	return err
}
