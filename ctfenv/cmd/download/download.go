// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package download

import (
	"github.com/mlctf/platform/tools/ctfenv/cmd"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download platform artifacts",
}

func init() {
	cmd.RootCmd.AddCommand(downloadCmd)
}
