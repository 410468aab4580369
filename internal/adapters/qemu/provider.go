// Package qemu reads disk image metadata with qemu-img.
package qemu

import (
	"context"
	"encoding/json"
	"errors"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
)

// backingFileKey is the qemu-img info field naming a disk's backing file.
const backingFileKey = "backing-filename"

var (
	_ ports.DiskMetadataFactory  = (*Factory)(nil)
	_ ports.DiskMetadataProvider = (*Provider)(nil)
)

// Factory creates qemu-img backed providers.
type Factory struct {
	runner ports.CommandRunner
}

// NewFactory creates a new Factory.
func NewFactory(runner ports.CommandRunner) *Factory {
	return &Factory{runner: runner}
}

// Provider returns a provider configured with the given inspection settings.
func (f *Factory) Provider(settings domain.InspectionSettings) ports.DiskMetadataProvider {
	return NewProvider(f.runner, settings)
}

// Provider implements ports.DiskMetadataProvider by running "qemu-img info".
type Provider struct {
	runner   ports.CommandRunner
	settings domain.InspectionSettings
}

// NewProvider creates a new Provider.
func NewProvider(runner ports.CommandRunner, settings domain.InspectionSettings) *Provider {
	return &Provider{runner: runner, settings: settings}
}

// BackingFile runs qemu-img on diskPath and returns the recorded backing file
// exactly as qemu-img reports it.
func (p *Provider) BackingFile(ctx context.Context, diskPath string) (string, bool, error) {
	out, err := p.runner.Run(ctx, p.settings.Binary, p.args(diskPath)...)
	if err != nil {
		err = zerr.Wrap(errors.Join(domain.ErrDiskInspectionFailed, err), "qemu-img info failed")
		return "", false, zerr.With(err, "disk", diskPath)
	}
	return parseBackingFile(out, diskPath)
}

func (p *Provider) args(diskPath string) []string {
	args := []string{"info", "--output=json"}
	if p.settings.ForceShare {
		// Running instances hold a write lock on their disk.
		args = append(args, "-U")
	}
	return append(args, diskPath)
}

func parseBackingFile(out []byte, diskPath string) (string, bool, error) {
	var info map[string]json.RawMessage
	if err := json.Unmarshal(out, &info); err != nil {
		err = zerr.Wrap(errors.Join(domain.ErrUnexpectedInspectionOutput, err), "inspection output is not JSON")
		return "", false, zerr.With(err, "disk", diskPath)
	}
	if info == nil {
		return "", false, zerr.With(
			zerr.Wrap(domain.ErrUnexpectedInspectionOutput, "inspection output is not an object"),
			"disk", diskPath)
	}

	raw, ok := info[backingFileKey]
	if !ok {
		return "", false, nil
	}

	var backing string
	if err := json.Unmarshal(raw, &backing); err != nil || backing == "" {
		return "", false, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrUnexpectedInspectionOutput, backingFileKey+" is not a non-empty string"),
			"disk", diskPath), "value", string(raw))
	}
	return backing, true, nil
}
