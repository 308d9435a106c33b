// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package pypi resolves pinned requirements to downloadable release
// artifacts using the package index's JSON API.
package pypi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mlctf/platform/tools/internal/logger"
	"github.com/mlctf/platform/tools/internal/network"
)

// DefaultIndexBaseUrl is the JSON API root of the public package index.
const DefaultIndexBaseUrl = "https://pypi.org/pypi"

const (
	wheelPackageType = "bdist_wheel"
	sdistPackageType = "sdist"
)

type releaseMetadata struct {
	Info packageInfo   `json:"info"`
	Urls []releaseFile `json:"urls"`
}

type packageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type releaseFile struct {
	Filename    string         `json:"filename"`
	Url         string         `json:"url"`
	PackageType string         `json:"packagetype"`
	Yanked      bool           `json:"yanked"`
	Digests     releaseDigests `json:"digests"`
}

type releaseDigests struct {
	SHA256 string `json:"sha256"`
}

// Artifact identifies a single downloadable release file.
type Artifact struct {
	Name        string
	Version     string
	Filename    string
	DownloadUrl string
	SHA256      string
}

// ParseRequirement splits a pinned requirement of the form "name==version".
func ParseRequirement(requirement string) (name, version string, err error) {
	parts := strings.SplitN(requirement, "==", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		err = fmt.Errorf("requirement must be pinned as name==version, got '%s'", requirement)
		return
	}

	name = strings.TrimSpace(parts[0])
	version = strings.TrimSpace(parts[1])
	return
}

// ResolveArtifact queries the index for the given pinned requirement and
// picks a release artifact, preferring wheels over source distributions.
func ResolveArtifact(indexBaseUrl, name, version string) (*Artifact, error) {
	metadataUrl := network.JoinURL(indexBaseUrl, name, version, "json")

	logger.Log.Debugf("querying package index: %s", metadataUrl)

	response, err := http.Get(metadataUrl)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("package index has no release for %s==%s", name, version)
	} else if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid response from package index: %v", response.StatusCode)
	}

	metadataBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var metadata releaseMetadata
	err = json.Unmarshal(metadataBytes, &metadata)
	if err != nil {
		return nil, err
	}

	selected := selectReleaseFile(metadata.Urls)
	if selected == nil {
		return nil, fmt.Errorf("no installable artifact found for %s==%s", name, version)
	}

	return &Artifact{
		Name:        metadata.Info.Name,
		Version:     metadata.Info.Version,
		Filename:    selected.Filename,
		DownloadUrl: selected.Url,
		SHA256:      selected.Digests.SHA256,
	}, nil
}

func selectReleaseFile(files []releaseFile) *releaseFile {
	var sdist *releaseFile

	for i := range files {
		f := &files[i]
		if f.Yanked {
			continue
		}

		switch f.PackageType {
		case wheelPackageType:
			return f
		case sdistPackageType:
			if sdist == nil {
				sdist = f
			}
		}
	}

	return sdist
}
