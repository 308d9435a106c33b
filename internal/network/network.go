// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package network downloads files over HTTP, optionally routing them
// through the shared wheel cache.
package network

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlctf/platform/tools/internal/file"
	"github.com/mlctf/platform/tools/internal/logger"
	"github.com/mlctf/platform/tools/internal/retry"
	"github.com/mlctf/platform/tools/internal/wheelcache"
)

// JoinURL concatenates baseURL with extraPaths.
func JoinURL(baseURL string, extraPaths ...string) string {
	const urlPathSeparator = "/"

	if len(extraPaths) == 0 {
		return baseURL
	}

	appendToBase := strings.Join(extraPaths, urlPathSeparator)
	return fmt.Sprintf("%s%s%s", strings.TrimRight(baseURL, urlPathSeparator), urlPathSeparator, appendToBase)
}

// CacheAwareDownloadFile downloads url into dst, consulting (and updating)
// the given cache. cache may be nil, in which case this is a plain download.
func CacheAwareDownloadFile(url, dst string, cache *wheelcache.Cache) (err error) {
	// Make sure the output file's dir tree exists.
	os.MkdirAll(filepath.Dir(dst), os.ModePerm)

	// First see if there's a cache hit.
	if cache != nil {
		var cacheEntry *wheelcache.Entry
		cacheEntry, err = cache.LookupByUri(url)
		if err != nil {
			logger.Log.Warnf("failed to look up cache entry for (%s): %s", url, err)
			err = nil
		}

		if cacheEntry != nil {
			err = file.Copy(cacheEntry.Path, dst)
			if err == nil {
				logger.Log.Debugf("cache hit for (%s)", url)
				return
			}

			logger.Log.Warnf("failed to copy cached archive (%s) to (%s): %s", cacheEntry.Path, dst, err)
			err = nil
		}
	}

	err = DownloadFileWithRetry(url, dst)
	if err != nil {
		return
	}

	if cache != nil {
		_, err = cache.Cache(url, dst)
		if err != nil {
			logger.Log.Warnf("failed to cache download (%s): %s", url, err)
			err = nil
		}
	}

	return
}

// DownloadFileWithRetry downloads url into dst, retrying transient failures.
func DownloadFileWithRetry(url, dst string) error {
	const (
		downloadRetryAttempts = 3
		downloadRetryDuration = time.Second
	)

	return retry.Run(func() error {
		return DownloadFile(url, dst)
	}, downloadRetryAttempts, downloadRetryDuration)
}

// DownloadFile downloads url into dst. If there is an error, dst is removed.
func DownloadFile(url, dst string) (err error) {
	logger.Log.Debugf("downloading (%s) -> (%s)", url, dst)

	dstFile, err := os.Create(dst)
	if err != nil {
		return
	}
	defer func() {
		// If there was an error, ensure that the partial file is removed.
		if err != nil {
			cleanupErr := file.RemoveFileIfExists(dst)
			if cleanupErr != nil {
				logger.Log.Errorf("failed to remove failed download '%s': %s", dst, cleanupErr)
			}
		}
		dstFile.Close()
	}()

	response, err := http.Get(url)
	if err != nil {
		return
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid response: %v", response.StatusCode)
	}

	_, err = io.Copy(dstFile, response.Body)

	return
}
