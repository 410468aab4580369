package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/basesweep/internal/adapters/memory"
	"go.trai.ch/basesweep/internal/adapters/telemetry"
	"go.trai.ch/basesweep/internal/app"
	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type testApp struct {
	loader  *mocks.MockSettingsLoader
	fs      *mocks.MockFileSystem
	factory *mocks.MockDiskMetadataFactory
	hasher  *mocks.MockPlanHasher
	logger  *mocks.MockLogger
	app     *app.App
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctrl := gomock.NewController(t)

	ta := &testApp{
		loader:  mocks.NewMockSettingsLoader(ctrl),
		fs:      mocks.NewMockFileSystem(ctrl),
		factory: mocks.NewMockDiskMetadataFactory(ctrl),
		hasher:  mocks.NewMockPlanHasher(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	ta.app = app.New(
		ta.loader,
		mocks.NewMockNovaConfigReader(ctrl),
		ta.fs,
		ta.factory,
		ta.hasher,
		mocks.NewMockJournal(ctrl),
		telemetry.NewNoOp(),
		ta.logger,
	)

	ta.logger.EXPECT().SetVerbose(gomock.Any()).AnyTimes()
	ta.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	ta.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	ta.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return ta
}

func (ta *testApp) provider() ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: ta.app, Logger: ta.logger}, func() {}, nil
	}
}

func discardOutput(a *app.App) {
	a.WithOutput(io.Discard)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ta := newTestApp(t)

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), ta.provider())
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ConfigError(t *testing.T) {
	ta := newTestApp(t)
	ta.loader.EXPECT().Load("/missing.yaml", true).Return(domain.Settings{}, domain.ErrConfigReadFailed)
	ta.logger.EXPECT().Error(gomock.Any())

	exitCode := run(context.Background(), []string{"scan", "--config", "/missing.yaml"}, io.Discard,
		ta.provider(), discardOutput)
	assert.Equal(t, 2, exitCode)
}

func TestRun_ScanSucceeds(t *testing.T) {
	ta := newTestApp(t)
	settings := domain.DefaultSettings()
	ta.loader.EXPECT().Load(domain.DefaultSettingsPath, false).Return(settings, nil)
	ta.factory.EXPECT().Provider(settings.Inspection()).Return(memory.NewDiskMetadata(nil))
	ta.fs.EXPECT().EnumerateInstances("/var/lib/nova/instances", "_base").Return(nil, nil)
	ta.fs.EXPECT().ScanCache("/var/lib/nova/instances/_base", gomock.Any()).Return(nil, nil)
	ta.hasher.EXPECT().PlanDigest(gomock.Any()).Return("ef46db3751d8e999")

	exitCode := run(context.Background(), []string{"scan"}, io.Discard, ta.provider(), discardOutput)
	assert.Equal(t, 0, exitCode)
}

func TestRun_UnresolvedReference(t *testing.T) {
	ta := newTestApp(t)
	settings := domain.DefaultSettings()
	disk := "/var/lib/nova/instances/vm-1/disk"

	ta.loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(settings, nil)
	ta.factory.EXPECT().Provider(gomock.Any()).
		Return(memory.NewDiskMetadata(map[string]string{disk: "/nowhere/img-X"}))
	ta.fs.EXPECT().EnumerateInstances(gomock.Any(), gomock.Any()).
		Return([]domain.InstanceRecord{{Path: "/var/lib/nova/instances/vm-1"}}, nil)
	ta.fs.EXPECT().ScanCache(gomock.Any(), gomock.Any()).Return(nil, nil)
	ta.fs.EXPECT().IsRegularFile(disk).Return(true, nil)
	ta.hasher.EXPECT().PlanDigest(gomock.Any()).Return("ef46db3751d8e999")
	// Reported once by the sweep; main does not log it again.
	ta.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"scan", "-d"}, io.Discard, ta.provider(), discardOutput)
	assert.Equal(t, 5, exitCode)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"unknown", errors.New("boom"), 1},
		{"canceled", context.Canceled, 1},
		{"config read", zerr.Wrap(domain.ErrConfigReadFailed, "failed to load settings"), 2},
		{"config parse", domain.ErrConfigParseFailed, 2},
		{"invalid settings", domain.ErrInvalidSettings, 2},
		{"protect pattern", domain.ErrInvalidProtectPattern, 2},
		{"cache scan", errors.Join(domain.ErrCacheScanFailed, errors.New("permission denied")), 3},
		{"instance scan", domain.ErrInstanceScanFailed, 3},
		{"cache dir missing", zerr.With(zerr.Wrap(domain.ErrCacheDirNotInInstances, "x"), "cache_dir", "/x"), 3},
		{"remove", domain.ErrRemoveFailed, 3},
		{"inspection", zerr.Wrap(errors.Join(domain.ErrDiskInspectionFailed, domain.ErrCommandFailed), "x"), 4},
		{"inspection output", domain.ErrUnexpectedInspectionOutput, 4},
		{"unresolved", domain.ErrUnresolvedBackingFile, 5},
		{"digest mismatch", domain.ErrPlanDigestMismatch, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
