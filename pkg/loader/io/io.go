package io

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FileFetcher reads raw file content from the local filesystem with
// caching, so a document referenced by several loads during one ingestion
// run is read once.
type FileFetcher struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewFileFetcher creates a filesystem-based fetcher.
func NewFileFetcher() *FileFetcher {
	return &FileFetcher{
		cache: make(map[string][]byte),
	}
}

// FetchFile reads the file at path. Results are cached and concurrent
// fetches of the same path are collapsed into one read.
func (f *FileFetcher) FetchFile(ctx context.Context, path string) ([]byte, error) {
	f.cacheMu.RLock()
	if cached, ok := f.cache[path]; ok {
		f.cacheMu.RUnlock()
		return cached, nil
	}
	f.cacheMu.RUnlock()

	result, err, _ := f.group.Do(path, func() (any, error) {
		f.cacheMu.RLock()
		if cached, ok := f.cache[path]; ok {
			f.cacheMu.RUnlock()
			return cached, nil
		}
		f.cacheMu.RUnlock()

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		f.cacheMu.Lock()
		f.cache[path] = content
		f.cacheMu.Unlock()

		return content, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
