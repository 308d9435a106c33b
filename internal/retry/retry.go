// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package retry runs fallible operations multiple times.
package retry

import (
	"time"

	"github.com/mlctf/platform/tools/internal/logger"
)

// Run invokes f up to attempts times, sleeping for the given duration
// between failed attempts. It returns nil as soon as f succeeds, or the
// last error once all attempts are exhausted.
func Run(f func() error, attempts int, sleep time.Duration) (err error) {
	for i := 0; i < attempts; i++ {
		if i > 0 {
			logger.Log.Debugf("retrying, attempt %d of %d", i+1, attempts)
			time.Sleep(sleep)
		}

		err = f()
		if err == nil {
			return
		}
	}

	return
}
