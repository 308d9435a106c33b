// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package main

import (
	"fmt"
	"os"

	"github.com/mlctf/platform/tools/ctfenv/cmd"
	_ "github.com/mlctf/platform/tools/ctfenv/cmd/check"
	_ "github.com/mlctf/platform/tools/ctfenv/cmd/download"
)

func main() {
	// Make sure we're not running as root; the virtual environment must be
	// owned by the invoking user.
	if os.Geteuid() == 0 {
		fmt.Fprintln(os.Stderr, "error: this tool may not be run as root")
		os.Exit(1)
	}

	cmd.Execute()
}
