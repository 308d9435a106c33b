// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package check

import (
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/mlctf/platform/tools/ctfenv/cmd"
)

type allChecker struct{}

func (allChecker) Name() string {
	return "all"
}

func (allChecker) Description() string {
	return "Runs ALL checks"
}

func (allChecker) Check(env *cmd.ProjectEnv) []CheckResult {
	var results []CheckResult

	for _, checker := range registeredEnvCheckers {
		if checker.Name() == "all" {
			continue
		}

		var checkerResults []CheckResult
		spinner.New().Title(fmt.Sprintf("Running check: %s", checker.Name())).Action(func() {
			checkerResults = checker.Check(env)
		}).Run()

		err := reportCheckerResults(checker, checkerResults)
		if err != nil {
			results = append(results, CheckResult{
				Status:  CheckFailed,
				Subject: checker.Name(),
				Error:   err,
			})
		} else {
			results = append(results, CheckResult{
				Status:  CheckSucceeded,
				Subject: checker.Name(),
			})
		}
	}

	return results
}

func init() {
	registerChecker(allChecker{})
}
