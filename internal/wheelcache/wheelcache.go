// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

// Package wheelcache implements a content-addressed cache of downloaded
// requirement archives (wheels and sdists). Entries are keyed by the URI
// they were fetched from; each entry directory holds the archive alongside
// a small metadata file. Publication into the cache is staged under a
// uuid-named directory and guarded with an advisory lock so that multiple
// tools may share one cache.
package wheelcache

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/google/uuid"

	"github.com/mlctf/platform/tools/internal/file"
	"github.com/mlctf/platform/tools/internal/filelock"
	"github.com/mlctf/platform/tools/internal/logger"
)

const (
	metadataFilename = "metadata.json"
	lockFilename     = ".lock"
	stagingDirName   = "staging"
	entriesDirName   = "sha256"

	archiveEntryType = "requirement-archive"
)

type Cache struct {
	rootDir string
}

type Entry struct {
	// Path to the cached archive file.
	Path string
	// URI the archive was originally fetched from.
	Uri string
}

type entryMetadata struct {
	Type     string `json:"type"`
	Uri      string `json:"uri"`
	Filename string `json:"filename"`
}

type entryKey struct {
	Uri string `json:"uri"`
}

// Open returns a cache rooted at rootPath, creating the directory tree if
// needed.
func Open(rootPath string) (*Cache, error) {
	err := os.MkdirAll(filepath.Join(rootPath, entriesDirName), os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache root '%s'\n%w", rootPath, err)
	}

	return &Cache{rootDir: rootPath}, nil
}

func (c *Cache) RootDir() string {
	return c.rootDir
}

// LookupByUri returns the cache entry for the given URI, or nil if the URI
// has not been cached. A corrupt entry is treated as a miss.
func (c *Cache) LookupByUri(uri string) (*Entry, error) {
	entryDir, err := c.entryDirForUri(uri)
	if err != nil {
		return nil, err
	}

	metadataPath := filepath.Join(entryDir, metadataFilename)
	metadataBytes, err := os.ReadFile(metadataPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var metadata entryMetadata
	err = json.Unmarshal(metadataBytes, &metadata)
	if err != nil {
		// Treat as a miss; the caller can always re-download and re-cache.
		logger.Log.Warnf("failed to parse cache metadata in '%s': %v", metadataPath, err)
		return nil, nil
	}

	if metadata.Type != archiveEntryType {
		return nil, fmt.Errorf("cache entry has type '%s' but expected '%s'", metadata.Type, archiveEntryType)
	}

	archivePath := filepath.Join(entryDir, metadata.Filename)
	if !file.Exists(archivePath) {
		return nil, fmt.Errorf("cache entry is missing its archive '%s'", archivePath)
	}

	return &Entry{Path: archivePath, Uri: metadata.Uri}, nil
}

// Cache copies the already-downloaded archive into the cache under the
// given URI and returns the resulting entry. An existing entry for the URI
// is replaced.
func (c *Cache) Cache(uri, archivePath string) (*Entry, error) {
	if uri == "" {
		return nil, errors.New("cannot cache archive with empty URI")
	}

	if _, err := os.Stat(archivePath); err != nil {
		return nil, fmt.Errorf("failed to stat input archive '%s'\n%w", archivePath, err)
	}

	logger.Log.Debugf("caching archive: '%s' => '%s'", uri, archivePath)

	entryDir, err := c.entryDirForUri(uri)
	if err != nil {
		return nil, err
	}

	// Stage the entry fully before publishing it.
	stagingDir := filepath.Join(c.rootDir, stagingDirName, uuid.NewString())
	err = os.MkdirAll(stagingDir, os.ModePerm)
	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(stagingDir)

	archiveFilename := filepath.Base(archivePath)
	err = file.Copy(archivePath, filepath.Join(stagingDir, archiveFilename))
	if err != nil {
		return nil, err
	}

	metadata := entryMetadata{
		Type:     archiveEntryType,
		Uri:      uri,
		Filename: archiveFilename,
	}

	metadataBytes, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	err = os.WriteFile(filepath.Join(stagingDir, metadataFilename), metadataBytes, 0644)
	if err != nil {
		return nil, err
	}

	err = c.publish(stagingDir, entryDir)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Path: filepath.Join(entryDir, archiveFilename),
		Uri:  uri,
	}, nil
}

// VisitEntries calls visit for every entry in the cache. Unreadable entries
// are reported through the callback's error argument.
func (c *Cache) VisitEntries(visit func(entry *Entry, entryErr error) error) error {
	entriesRoot := filepath.Join(c.rootDir, entriesDirName)

	return filepath.WalkDir(entriesRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() || path == entriesRoot {
			return nil
		}

		entry, entryErr := c.readEntry(path)
		if entry == nil && entryErr == nil {
			// Not an entry directory (e.g. a fan-out level); keep walking.
			return nil
		}

		visitErr := visit(entry, entryErr)
		if visitErr != nil {
			return visitErr
		}

		return fs.SkipDir
	})
}

func (c *Cache) readEntry(entryDir string) (*Entry, error) {
	metadataPath := filepath.Join(entryDir, metadataFilename)
	metadataBytes, err := os.ReadFile(metadataPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var metadata entryMetadata
	err = json.Unmarshal(metadataBytes, &metadata)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Path: filepath.Join(entryDir, metadata.Filename),
		Uri:  metadata.Uri,
	}, nil
}

func (c *Cache) publish(stagingDir, entryDir string) error {
	lock, err := filelock.NewLock(filepath.Join(c.rootDir, lockFilename))
	if err != nil {
		return err
	}

	defer lock.Close()

	err = lock.LockExclusive()
	if err != nil {
		return err
	}

	defer lock.Unlock()

	err = os.RemoveAll(entryDir)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(entryDir), os.ModePerm)
	if err != nil {
		return err
	}

	return os.Rename(stagingDir, entryDir)
}

func (c *Cache) entryDirForUri(uri string) (string, error) {
	keyBytes, err := json.Marshal(entryKey{Uri: uri})
	if err != nil {
		return "", err
	}

	canonicalKey, err := jsoncanonicalizer.Transform(keyBytes)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize cache key\n%w", err)
	}

	digest := fmt.Sprintf("%x", sha256.Sum256(canonicalKey))

	// Fan out on the first byte of the digest to keep directories small.
	return filepath.Join(c.rootDir, entriesDirName, digest[:2], digest[2:]), nil
}
