package qemu_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/basesweep/internal/adapters/logger"
	"go.trai.ch/basesweep/internal/adapters/qemu"
	"go.trai.ch/basesweep/internal/adapters/shell"
	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const disk = "/var/lib/nova/instances/vm-1/disk"

func TestProvider_BackingFile(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		backing string
		found   bool
		wantErr error
	}{
		{
			name:    "backed disk",
			output:  `{"filename": "disk", "format": "qcow2", "backing-filename": "/var/lib/nova/instances/_base/img-A"}`,
			backing: "/var/lib/nova/instances/_base/img-A",
			found:   true,
		},
		{
			name:    "relative backing file is returned as is",
			output:  `{"backing-filename": "../_base/img-A"}`,
			backing: "../_base/img-A",
			found:   true,
		},
		{
			name:   "flat disk",
			output: `{"filename": "disk", "format": "raw"}`,
		},
		{
			name:    "not json",
			output:  `image: disk`,
			wantErr: domain.ErrUnexpectedInspectionOutput,
		},
		{
			name:    "json array",
			output:  `["disk"]`,
			wantErr: domain.ErrUnexpectedInspectionOutput,
		},
		{
			name:    "json null",
			output:  `null`,
			wantErr: domain.ErrUnexpectedInspectionOutput,
		},
		{
			name:    "backing file is a number",
			output:  `{"backing-filename": 42}`,
			wantErr: domain.ErrUnexpectedInspectionOutput,
		},
		{
			name:    "backing file is empty",
			output:  `{"backing-filename": ""}`,
			wantErr: domain.ErrUnexpectedInspectionOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			runner := mocks.NewMockCommandRunner(ctrl)
			runner.EXPECT().
				Run(gomock.Any(), "qemu-img", "info", "--output=json", "-U", disk).
				Return([]byte(tt.output), nil)

			p := qemu.NewProvider(runner, domain.InspectionSettings{Binary: "qemu-img", ForceShare: true})
			backing, found, err := p.BackingFile(context.Background(), disk)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.backing, backing)
		})
	}
}

func TestProvider_WithoutForceShare(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "/opt/qemu/bin/qemu-img", "info", "--output=json", disk).
		Return([]byte(`{}`), nil)

	f := qemu.NewFactory(runner)
	p := f.Provider(domain.InspectionSettings{Binary: "/opt/qemu/bin/qemu-img"})

	_, found, err := p.BackingFile(context.Background(), disk)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProvider_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "qemu-img", "info", "--output=json", disk).
		Return(nil, domain.ErrCommandFailed)

	p := qemu.NewProvider(runner, domain.InspectionSettings{Binary: "qemu-img"})
	_, _, err := p.BackingFile(context.Background(), disk)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDiskInspectionFailed))
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
}

func TestProvider_WithFakeQemuImg(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "qemu-img")
	script := "#!/bin/sh\n" +
		"[ \"$1\" = info ] || exit 2\n" +
		"printf '{\"backing-filename\": \"%s/_base/img-A\"}' \"$(dirname \"$4\")\"\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o700))

	runner := shell.NewRunner(logger.New())
	p := qemu.NewFactory(runner).Provider(domain.InspectionSettings{Binary: bin, ForceShare: true})

	backing, found, err := p.BackingFile(context.Background(), "/srv/vm-1/disk")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/srv/vm-1/_base/img-A", backing)
}
