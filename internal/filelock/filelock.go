// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package filelock wraps flock(2) advisory locks. The provisioning tools
// use it to keep concurrent runs from racing on shared directories.
package filelock

import (
	"os"
	"syscall"
)

type FileLock struct {
	file *os.File
}

// NewLock creates (or opens) the lock file at path.
func NewLock(path string) (*FileLock, error) {
	lockFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	lock := &FileLock{
		file: lockFile,
	}

	return lock, nil
}

func (l *FileLock) Close() error {
	if l.file != nil {
		return l.file.Close()
	} else {
		return nil
	}
}

func (l *FileLock) LockExclusive() error {
	return syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX)
}

func (l *FileLock) LockShared() error {
	return syscall.Flock(int(l.file.Fd()), syscall.LOCK_SH)
}

// TryLockExclusive attempts to take the exclusive lock without blocking.
// It returns false if another process already holds it.
func (l *FileLock) TryLockExclusive() (bool, error) {
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err == syscall.EWOULDBLOCK {
		return false, nil
	} else if err != nil {
		return false, err
	} else {
		return true, nil
	}
}

func (l *FileLock) TryLockShared() (bool, error) {
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_SH|syscall.LOCK_NB)
	if err == syscall.EWOULDBLOCK {
		return false, nil
	} else if err != nil {
		return false, err
	} else {
		return true, nil
	}
}

func (l *FileLock) Unlock() error {
	return syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
}
