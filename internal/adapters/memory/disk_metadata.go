// Package memory provides in-process implementations of core ports.
package memory

import (
	"context"
	"sync"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DiskMetadataProvider = (*DiskMetadata)(nil)

// DiskMetadata answers backing-file queries from a fixed map of disk path to backing file.
// It is safe for concurrent use.
type DiskMetadata struct {
	mu      sync.RWMutex
	backing map[string]string
	failing map[string]error
	calls   map[string]int
}

// NewDiskMetadata creates a DiskMetadata seeded with backing.
// Disks missing from the map have no backing file.
func NewDiskMetadata(backing map[string]string) *DiskMetadata {
	m := &DiskMetadata{
		backing: make(map[string]string, len(backing)),
		failing: make(map[string]error),
		calls:   make(map[string]int),
	}
	for disk, b := range backing {
		m.backing[disk] = b
	}
	return m
}

// Fail makes every inspection of diskPath return err.
func (m *DiskMetadata) Fail(diskPath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[diskPath] = err
}

// BackingFile implements ports.DiskMetadataProvider.
func (m *DiskMetadata) BackingFile(ctx context.Context, diskPath string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[diskPath]++

	if err, ok := m.failing[diskPath]; ok {
		return "", false, zerr.With(zerr.Wrap(domain.ErrDiskInspectionFailed, err.Error()), "disk", diskPath)
	}
	b, ok := m.backing[diskPath]
	return b, ok, nil
}

// Calls returns how many times diskPath was inspected.
func (m *DiskMetadata) Calls(diskPath string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[diskPath]
}
