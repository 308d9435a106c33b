//go:build mage

// This is a magefile, and is a "makefile for go".
// See https://magefile.org/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func buildExe(name string) error {
	return sh.Run("go", "build", "-o", fmt.Sprintf("./build/%s", name), fmt.Sprintf("./%s", name))
}

func installExe(name string) error {
	return sh.Run("go", "install", fmt.Sprintf("./%s", name))
}

func buildCtfenv() error {
	return buildExe("ctfenv")
}
func buildReqdl() error {
	return buildExe("reqdl")
}
func buildCachectl() error {
	return buildExe("cachectl")
}
func buildConfigschema() error {
	return buildExe("configschema")
}

func installCtfenv() error {
	return installExe("ctfenv")
}
func installReqdl() error {
	return installExe("reqdl")
}
func installCachectl() error {
	return installExe("cachectl")
}

// Builds executable binaries
func Build() {
	mg.Deps(buildCtfenv, buildReqdl, buildCachectl, buildConfigschema)
}

// Install executable binaries under GOBIN
func Install() {
	mg.Deps(installCtfenv, installReqdl, installCachectl)
}

func checkSourceFormatting() error {
	output, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}

	lines := strings.Split(output, "\n")
	filesNeedingFormatting := len(lines)
	if filesNeedingFormatting > 0 && output == "" {
		filesNeedingFormatting -= 1
	}

	if filesNeedingFormatting > 0 {
		return fmt.Errorf("found %d .go files needing reformatting; please run 'go fmt'", filesNeedingFormatting)
	}

	return nil
}

// Checks sources
func Check() {
	mg.Deps(checkSourceFormatting)
}

// Cleans output
func Clean() error {
	return os.RemoveAll("build")
}

// Runs tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}
