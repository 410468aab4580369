// Package fs provides file system adapters for scanning the image cache and instance directories.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*Scanner)(nil)

// Scanner implements ports.FileSystem on the local file system.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanCache lists the regular files directly inside dir.
// Symlinks are followed, so a link to a directory is skipped.
func (s *Scanner) ScanCache(dir string, now time.Time) ([]domain.CacheEntry, error) {
	names, err := readDirNames(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrCacheScanFailed, err), "failed to list cache directory"),
			"cache_dir", dir)
	}

	entries := make([]domain.CacheEntry, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				// Dangling symlink.
				continue
			}
			return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrCacheScanFailed, err), "failed to stat cache file"),
				"path", path)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, domain.CacheEntry{
			Path:    path,
			Age:     now.Sub(info.ModTime()).Seconds(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// EnumerateInstances lists the directories directly inside instancesDir
// except the cache directory, which must be present.
func (s *Scanner) EnumerateInstances(instancesDir, cacheName string) ([]domain.InstanceRecord, error) {
	names, err := readDirNames(instancesDir)
	if err != nil {
		return nil, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrInstanceScanFailed, err), "failed to list instances directory"),
			"instances_dir", instancesDir)
	}

	records := make([]domain.InstanceRecord, 0, len(names))
	sawCache := false
	for _, name := range names {
		path := filepath.Join(instancesDir, name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(
				zerr.Wrap(errors.Join(domain.ErrInstanceScanFailed, err), "failed to stat instance directory"),
				"path", path)
		}
		if !info.IsDir() {
			continue
		}
		if name == cacheName {
			sawCache = true
			continue
		}
		records = append(records, domain.InstanceRecord{Path: path})
	}

	if !sawCache {
		err := zerr.Wrap(domain.ErrCacheDirNotInInstances, "cache directory not found in instances directory")
		err = zerr.With(err, "instances_dir", instancesDir)
		return nil, zerr.With(err, "cache_dir", filepath.Join(instancesDir, cacheName))
	}
	return records, nil
}

// IsRegularFile reports whether path is a regular file, following symlinks.
// A path that does not exist is not an error.
func (s *Scanner) IsRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.Mode().IsRegular(), nil
}

// Remove deletes a single cache file.
func (s *Scanner) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrRemoveFailed, err), "failed to remove cache file"),
			"path", path)
	}
	return nil
}

// readDirNames returns the names in dir in the order the file system yields them.
func readDirNames(dir string) ([]string, error) {
	f, err := os.Open(dir) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	return f.Readdirnames(-1)
}
