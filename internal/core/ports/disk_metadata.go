package ports

import (
	"context"

	"go.trai.ch/basesweep/internal/core/domain"
)

// DiskMetadataProvider extracts the backing file of a disk image.
//
//go:generate go run go.uber.org/mock/mockgen -source=disk_metadata.go -destination=mocks/mock_disk_metadata.go -package=mocks
type DiskMetadataProvider interface {
	// BackingFile returns the backing file recorded in the disk's metadata.
	// found is false when the disk has no backing file.
	BackingFile(ctx context.Context, diskPath string) (backing string, found bool, err error)
}

// DiskMetadataFactory builds a DiskMetadataProvider for the given inspection settings.
type DiskMetadataFactory interface {
	Provider(settings domain.InspectionSettings) DiskMetadataProvider
}
