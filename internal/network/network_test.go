package network

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlctf/platform/tools/internal/wheelcache"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		extra    []string
		expected string
	}{
		{name: "no extra", base: "https://example.test", expected: "https://example.test"},
		{name: "one segment", base: "https://example.test", extra: []string{"a"}, expected: "https://example.test/a"},
		{name: "many segments", base: "https://example.test", extra: []string{"a", "b", "c"}, expected: "https://example.test/a/b/c"},
		{name: "trailing slash on base", base: "https://example.test/", extra: []string{"a"}, expected: "https://example.test/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinURL(tt.base, tt.extra...))
		})
	}
}

func TestDownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload")
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, DownloadFile(server.URL, dst))

	contents, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(contents))
}

func TestDownloadFileRemovesPartialOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "out.bin")
	require.Error(t, DownloadFile(server.URL, dst))
	assert.NoFileExists(t, dst)
}

func TestCacheAwareDownloadUsesCacheOnSecondFetch(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "wheel bytes")
	}))
	defer server.Close()

	cache, err := wheelcache.Open(t.TempDir())
	require.NoError(t, err)

	url := server.URL + "/pkg-1.0-py3-none-any.whl"

	first := filepath.Join(t.TempDir(), "first.whl")
	require.NoError(t, CacheAwareDownloadFile(url, first, cache))
	assert.Equal(t, 1, requests)

	second := filepath.Join(t.TempDir(), "second.whl")
	require.NoError(t, CacheAwareDownloadFile(url, second, cache))
	assert.Equal(t, 1, requests, "second fetch should be served from the cache")

	contents, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "wheel bytes", string(contents))
}

func TestCacheAwareDownloadWithoutCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data")
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, CacheAwareDownloadFile(server.URL, dst, nil))
	assert.FileExists(t, dst)
}
