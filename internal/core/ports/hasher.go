package ports

import "go.trai.ch/basesweep/internal/core/domain"

// PlanHasher computes a stable digest of a deletion plan.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type PlanHasher interface {
	// PlanDigest hashes the ordered entries, including their size and modification time.
	PlanDigest(entries []domain.CacheEntry) string
}
