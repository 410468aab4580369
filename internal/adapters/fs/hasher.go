package fs

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
)

var _ ports.PlanHasher = (*Hasher)(nil)

// Hasher computes plan digests.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// PlanDigest computes the XXHash of the ordered deletion plan.
// Each entry contributes its path, size and modification time, so touching
// or rewriting a file changes the digest.
func (h *Hasher) PlanDigest(entries []domain.CacheEntry) string {
	hasher := xxhash.New()

	var buf [8]byte
	for _, e := range entries {
		_, _ = hasher.WriteString(e.Path)
		_, _ = hasher.Write([]byte{0}) // Separator

		binary.LittleEndian.PutUint64(buf[:], uint64(e.Size)) //nolint:gosec // Sizes are non-negative
		_, _ = hasher.Write(buf[:])

		binary.LittleEndian.PutUint64(buf[:], uint64(e.ModTime.UnixNano())) //nolint:gosec // Bit pattern only
		_, _ = hasher.Write(buf[:])
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}
