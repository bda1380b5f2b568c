package watcher

import (
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ChangeFilter remembers the content hash of every path it has seen and
// reports only events whose content actually changed. Editors that save
// unchanged buffers or touch files therefore do not trigger rebuilds.
type ChangeFilter struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

// NewChangeFilter creates an empty filter.
func NewChangeFilter() *ChangeFilter {
	return &ChangeFilter{hashes: make(map[string]uint64)}
}

// Seed records the current content of path without reporting a change.
func (f *ChangeFilter) Seed(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.hashes[path] = xxhash.Sum64(data)
	f.mu.Unlock()
}

// Changed reports whether path differs from the last content seen for it.
// Unreadable paths (removed, or directories) count as changed when they were
// known before and are forgotten.
func (f *ChangeFilter) Changed(path string) bool {
	data, err := os.ReadFile(path)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		_, known := f.hashes[path]
		delete(f.hashes, path)
		return known
	}

	sum := xxhash.Sum64(data)
	prev, known := f.hashes[path]
	f.hashes[path] = sum
	return !known || prev != sum
}
