// Package journal keeps a bounded history of sweep runs in a flat JSON file.
package journal

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
)

// MaxRecords is the number of runs kept in the journal; older runs are dropped first.
const MaxRecords = 100

var _ ports.Journal = (*Store)(nil)

// Store implements ports.Journal using a flat JSON file.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Append adds record to the journal at path.
func (s *Store) Append(path string, record domain.SweepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = filepath.Clean(path)
	records, err := load(path)
	if err != nil {
		return err
	}

	records = append(records, record)
	if len(records) > MaxRecords {
		records = records[len(records)-MaxRecords:]
	}
	return save(path, records)
}

// Records returns the journal stored at path, oldest first.
// A missing journal is empty.
func (s *Store) Records(path string) ([]domain.SweepRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return load(filepath.Clean(path))
}

func load(path string) ([]domain.SweepRecord, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrJournalReadFailed, err), "failed to read journal"),
			"path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []domain.SweepRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrJournalReadFailed, err), "failed to unmarshal journal"),
			"path", path)
	}
	return records, nil
}

func save(path string, records []domain.SweepRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrJournalWriteFailed, err), "failed to marshal journal")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(
			zerr.Wrap(errors.Join(domain.ErrJournalWriteFailed, err), "failed to create directory for journal"),
			"path", path)
	}

	tmp := path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrJournalWriteFailed, err), "failed to write journal"),
			"path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrJournalWriteFailed, err), "failed to replace journal"),
			"path", path)
	}
	return nil
}
