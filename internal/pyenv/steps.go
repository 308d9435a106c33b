// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package pyenv

import (
	"github.com/mlctf/platform/tools/internal/logger"
)

// Step is one stage of the provisioning pipeline.
type Step struct {
	Name string

	// NonFatal steps log their failure and let the pipeline continue.
	NonFatal bool

	Run func() error
}

// RunSteps executes steps in order, stopping at the first failure of a
// fatal step. Failures of non-fatal steps are logged and absorbed.
func RunSteps(steps []Step) error {
	for _, step := range steps {
		logger.Log.Debugf("running step: %s", step.Name)

		err := step.Run()
		if err == nil {
			continue
		}

		if step.NonFatal {
			logger.Log.Warnf("step '%s' failed (continuing): %v", step.Name, err)
			continue
		}

		return err
	}

	return nil
}
