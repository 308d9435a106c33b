// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package check

import (
	"github.com/mlctf/platform/tools/ctfenv/cmd"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run checks against the platform environment",
}

func init() {
	cmd.RootCmd.AddCommand(checkCmd)
}
