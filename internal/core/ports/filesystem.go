package ports

import (
	"time"

	"go.trai.ch/basesweep/internal/core/domain"
)

// FileSystem gives the sweeper read access to the cache and instance
// directories and removes cache files.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ScanCache lists the files directly inside dir, aged against now.
	// Entries are returned in directory enumeration order.
	ScanCache(dir string, now time.Time) ([]domain.CacheEntry, error)

	// EnumerateInstances lists the directories directly inside instancesDir,
	// leaving out the one named cacheName. It fails if that directory is absent.
	EnumerateInstances(instancesDir, cacheName string) ([]domain.InstanceRecord, error)

	// IsRegularFile reports whether path exists and is a regular file.
	IsRegularFile(path string) (bool, error)

	// Remove deletes a single file.
	Remove(path string) error
}
