// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package pyenv

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a major.minor interpreter version.
type Version struct {
	Major int
	Minor int
}

// MinSupportedVersion is the oldest interpreter the platform runs on.
var MinSupportedVersion = Version{Major: 3, Minor: 9}

// DefaultInterpreterCandidates are probed, in order, when no explicit
// interpreter is configured.
var DefaultInterpreterCandidates = []string{"python3", "python"}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}

	return v.Minor >= other.Minor
}

// Interpreter is a resolved Python interpreter.
type Interpreter struct {
	Path    string
	Version Version
}

// ParseVersion parses a "major.minor[.patch]" version string.
func ParseVersion(s string) (Version, error) {
	numbers := strings.Split(strings.TrimSpace(s), ".")
	if len(numbers) < 2 {
		return Version{}, fmt.Errorf("unrecognized interpreter version: '%s'", s)
	}

	major, err := strconv.Atoi(numbers[0])
	if err != nil {
		return Version{}, fmt.Errorf("unrecognized interpreter version: '%s'", s)
	}

	minor, err := strconv.Atoi(numbers[1])
	if err != nil {
		return Version{}, fmt.Errorf("unrecognized interpreter version: '%s'", s)
	}

	return Version{Major: major, Minor: minor}, nil
}

// ParseVersionOutput extracts the interpreter version from the output of
// `python --version`, e.g. "Python 3.11.4".
func ParseVersionOutput(output string) (Version, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || fields[0] != "Python" {
		return Version{}, fmt.Errorf("unrecognized interpreter version output: '%s'", strings.TrimSpace(output))
	}

	return ParseVersion(fields[1])
}
