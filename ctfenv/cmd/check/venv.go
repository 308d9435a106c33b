// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package check

import (
	"os"

	"github.com/mlctf/platform/tools/ctfenv/cmd"
)

type venvChecker struct{}

func (venvChecker) Name() string {
	return "venv"
}

func (venvChecker) Description() string {
	return "Verify the integrity of the provisioned virtual environment"
}

func (venvChecker) Check(env *cmd.ProjectEnv) []CheckResult {
	venv := env.Venv()

	if !venv.Exists() {
		return []CheckResult{{Status: CheckSkipped, Subject: venv.Dir}}
	}

	var results []CheckResult
	for _, required := range []string{venv.Python(), venv.Pip()} {
		_, err := os.Stat(required)
		if err != nil {
			results = append(results, CheckResult{Status: CheckFailed, Subject: required, Error: err})
		} else {
			results = append(results, CheckResult{Status: CheckSucceeded, Subject: required})
		}
	}

	return results
}

func init() {
	registerChecker(venvChecker{})
}
