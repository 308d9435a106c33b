// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlctf/platform/tools/internal/exe"
	"github.com/mlctf/platform/tools/internal/file"
	"github.com/mlctf/platform/tools/internal/logger"
	"github.com/mlctf/platform/tools/internal/wheelcache"

	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("cachectl", "Manages the shared requirement archive cache")

	logFile  = exe.LogFileFlag(app)
	logLevel = exe.LogLevelFlag(app)

	cacheDir = app.Flag("cache", "Path to archive cache.").Required().String()

	statsCommand = app.Command("stats", "Prints statistics about the cache.")

	exportCommand   = app.Command("export", "Copies all cached archives into a flat directory usable with pip --find-links.")
	exportOutputDir = exportCommand.Flag("output-dir", "Directory to export archives into.").Required().String()
)

func main() {
	app.Version(exe.ToolkitVersion)
	selectedCommand := kingpin.MustParse(app.Parse(os.Args[1:]))
	logger.InitBestEffort(*logFile, *logLevel)

	// Open the cache.
	cache, err := wheelcache.Open(*cacheDir)
	if err != nil {
		logger.PanicOnError(err)
	}

	switch selectedCommand {
	case statsCommand.FullCommand():
		err = doStats(cache)
	case exportCommand.FullCommand():
		err = doExport(cache, *exportOutputDir)
	default:
		err = fmt.Errorf("unknown command: %s", selectedCommand)
	}

	logger.PanicOnError(err)
}

func doStats(cache *wheelcache.Cache) error {
	var totalSize int64
	entryCount := 0

	err := cache.VisitEntries(func(entry *wheelcache.Entry, entryErr error) error {
		if entryErr != nil {
			logger.Log.Warnf("skipping unreadable cache entry: %v", entryErr)
			return nil
		}

		entryCount += 1

		info, statErr := os.Stat(entry.Path)
		if statErr == nil {
			totalSize += info.Size()
		}

		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("entries: %d\n", entryCount)
	fmt.Printf("total size: %d bytes\n", totalSize)

	return nil
}

func doExport(cache *wheelcache.Cache, outputDir string) error {
	err := os.MkdirAll(outputDir, os.ModePerm)
	if err != nil {
		return err
	}

	exported := 0
	err = cache.VisitEntries(func(entry *wheelcache.Entry, entryErr error) error {
		if entryErr != nil {
			logger.Log.Warnf("skipping unreadable cache entry: %v", entryErr)
			return nil
		}

		destPath := filepath.Join(outputDir, filepath.Base(entry.Path))

		copyErr := file.Copy(entry.Path, destPath)
		if copyErr != nil {
			return copyErr
		}

		exported += 1
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Infof("exported %d archives to '%s'", exported, outputDir)

	return nil
}
