// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package check

import (
	"fmt"

	"github.com/mlctf/platform/tools/ctfenv/cmd"
)

type interpreterChecker struct{}

func (interpreterChecker) Name() string {
	return "interpreter"
}

func (interpreterChecker) Description() string {
	return "Verify that a suitable Python interpreter is discoverable"
}

func (interpreterChecker) Check(env *cmd.ProjectEnv) []CheckResult {
	provisioner, err := env.NewProvisioner()
	if err != nil {
		return []CheckResult{{Status: CheckInternalError, Error: err}}
	}

	interp, err := provisioner.FindInterpreter()
	if err != nil {
		return []CheckResult{{Status: CheckFailed, Error: err}}
	}

	return []CheckResult{{
		Status:  CheckSucceeded,
		Subject: fmt.Sprintf("%s (Python %s)", interp.Path, interp.Version),
	}}
}

func init() {
	registerChecker(interpreterChecker{})
}
