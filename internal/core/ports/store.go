package ports

import "go.trai.ch/basesweep/internal/core/domain"

// Journal keeps a history of sweep runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type Journal interface {
	// Append adds a record to the journal stored at path.
	Append(path string, record domain.SweepRecord) error
}
