// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package check

import (
	"fmt"
	"os"

	"github.com/mlctf/platform/tools/ctfenv/cmd"
)

type requirementsChecker struct{}

func (requirementsChecker) Name() string {
	return "requirements"
}

func (requirementsChecker) Description() string {
	return "Verify that the dependency manifest is present and readable"
}

func (requirementsChecker) Check(env *cmd.ProjectEnv) []CheckResult {
	info, err := os.Stat(env.RequirementsPath)
	if err != nil {
		return []CheckResult{{Status: CheckFailed, Subject: env.RequirementsPath, Error: err}}
	}

	if info.IsDir() {
		return []CheckResult{{
			Status:  CheckFailed,
			Subject: env.RequirementsPath,
			Error:   fmt.Errorf("expected a file, found a directory"),
		}}
	}

	file, err := os.Open(env.RequirementsPath)
	if err != nil {
		return []CheckResult{{Status: CheckFailed, Subject: env.RequirementsPath, Error: err}}
	}

	file.Close()

	return []CheckResult{{Status: CheckSucceeded, Subject: env.RequirementsPath}}
}

func init() {
	registerChecker(requirementsChecker{})
}
