// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package file provides small filesystem helpers.
package file

import (
	"io"
	"os"
)

// Copy copies the file at src to dst, creating or truncating dst.
func Copy(src, dst string) (err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return
	}
	defer func() {
		closeErr := dstFile.Close()
		if err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(dstFile, srcFile)
	return
}

// Exists reports whether path can be stat'd.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RemoveFileIfExists removes path if present; a missing file is not an error.
func RemoveFileIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	return err
}
