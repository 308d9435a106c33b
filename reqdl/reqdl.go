// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// A cache-aware downloader for requirement archives.

package main

import (
	"fmt"
	"os"
	"path"

	"github.com/mlctf/platform/tools/internal/exe"
	"github.com/mlctf/platform/tools/internal/logger"
	"github.com/mlctf/platform/tools/internal/network"
	"github.com/mlctf/platform/tools/internal/pypi"
	"github.com/mlctf/platform/tools/internal/wheelcache"

	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("reqdl", "Cache-aware downloader for requirement archives")

	logFile  = exe.LogFileFlag(app)
	logLevel = exe.LogLevelFlag(app)

	outputDir = app.Flag("output-dir", "Directory to place downloaded archives in.").Required().String()
	uris      = app.Flag("uri", "URI of an archive to download.").Strings()
	packages  = app.Flag("package", "Pinned requirement (name==version) to resolve via the package index.").Strings()
	indexUrl  = app.Flag("index-url", "Base URL of the package index JSON API.").Default(pypi.DefaultIndexBaseUrl).String()
	cacheDir  = app.Flag("cache", "Path to the shared archive cache.").String()
)

func main() {
	app.Version(exe.ToolkitVersion)
	kingpin.MustParse(app.Parse(os.Args[1:]))
	logger.InitBestEffort(*logFile, *logLevel)

	// Open the cache if specified.
	var cache *wheelcache.Cache
	if *cacheDir != "" {
		var err error
		cache, err = wheelcache.Open(*cacheDir)
		if err != nil {
			logger.PanicOnError(err)
		}
	}

	downloadUris := append([]string{}, *uris...)

	for _, requirement := range *packages {
		name, version, err := pypi.ParseRequirement(requirement)
		logger.PanicOnError(err)

		artifact, err := pypi.ResolveArtifact(*indexUrl, name, version)
		logger.PanicOnError(err, "Failed to resolve requirement '%s'. Error: %v", requirement, err)

		logger.Log.Infof("resolved %s to %s", requirement, artifact.Filename)

		downloadUris = append(downloadUris, artifact.DownloadUrl)
	}

	if len(downloadUris) == 0 {
		logger.PanicOnError(fmt.Errorf("nothing to download; pass --uri or --package"))
	}

	err := os.MkdirAll(*outputDir, os.ModePerm)
	logger.PanicOnError(err)

	for _, uri := range downloadUris {
		destPath := path.Join(*outputDir, path.Base(uri))

		err = network.CacheAwareDownloadFile(uri, destPath, cache)
		logger.PanicOnError(err, "Failed to download (%s). Error: %v", uri, err)
	}
}
