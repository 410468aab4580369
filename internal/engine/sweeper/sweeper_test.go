package sweeper_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/basesweep/internal/adapters/fs"
	"go.trai.ch/basesweep/internal/adapters/memory"
	"go.trai.ch/basesweep/internal/adapters/telemetry"
	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports/mocks"
	"go.trai.ch/basesweep/internal/engine/sweeper"
	"go.uber.org/mock/gomock"
)

const day = 86400

type host struct {
	t         *testing.T
	instances string
	now       time.Time
}

func newHost(t *testing.T) *host {
	t.Helper()
	h := &host{t: t, instances: filepath.Join(t.TempDir(), "instances"), now: time.Now()}
	require.NoError(t, os.MkdirAll(filepath.Join(h.instances, "_base"), 0o750))
	return h
}

func (h *host) cacheFile(name string, age time.Duration) string {
	h.t.Helper()
	path := filepath.Join(h.instances, "_base", name)
	require.NoError(h.t, os.WriteFile(path, []byte(name), 0o600))
	mtime := h.now.Add(-age)
	require.NoError(h.t, os.Chtimes(path, mtime, mtime))
	return path
}

func (h *host) instance(name string, withDisk bool) string {
	h.t.Helper()
	dir := filepath.Join(h.instances, name)
	require.NoError(h.t, os.MkdirAll(dir, 0o750))
	disk := filepath.Join(dir, "disk")
	if withDisk {
		require.NoError(h.t, os.WriteFile(disk, nil, 0o600))
	}
	return disk
}

func (h *host) plan(concurrency int) sweeper.Plan {
	return sweeper.Plan{
		InstancesDir: h.instances,
		CacheName:    "_base",
		DiskName:     "disk",
		MinAge:       day,
		Concurrency:  concurrency,
	}
}

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return log
}

func TestSweeper_OldUnreferencedIsDeletable(t *testing.T) {
	h := newHost(t)
	imgA := h.cacheFile("img-A", 48*time.Hour)
	h.cacheFile("img-B", time.Minute)
	h.instance("vm-1", false)

	s := sweeper.New(fs.NewScanner(), memory.NewDiskMetadata(nil), telemetry.NewNoOp(), quietLogger(t))
	report, err := s.Run(context.Background(), h.plan(1))
	require.NoError(t, err)

	assert.Equal(t, []string{imgA}, report.Result.DeletablePaths())
	assert.False(t, report.Result.HasUnresolved())
	assert.Len(t, report.Entries, 2)
	assert.Len(t, report.Instances, 1)
}

func TestSweeper_ReferencedIsKept(t *testing.T) {
	h := newHost(t)
	imgA := h.cacheFile("img-A", 48*time.Hour)
	disk := h.instance("vm-1", true)

	provider := memory.NewDiskMetadata(map[string]string{disk: imgA})
	s := sweeper.New(fs.NewScanner(), provider, telemetry.NewNoOp(), quietLogger(t))

	report, err := s.Run(context.Background(), h.plan(1))
	require.NoError(t, err)

	assert.Empty(t, report.Result.DeletablePaths())
	assert.Equal(t, []string{imgA}, report.Result.Used)
	assert.Equal(t, 1, provider.Calls(disk))
}

func TestSweeper_RelativeBackingFile(t *testing.T) {
	h := newHost(t)
	imgA := h.cacheFile("img-A", 48*time.Hour)
	disk := h.instance("vm-1", true)

	provider := memory.NewDiskMetadata(map[string]string{disk: "../_base/./img-A"})
	s := sweeper.New(fs.NewScanner(), provider, telemetry.NewNoOp(), quietLogger(t))

	report, err := s.Run(context.Background(), h.plan(1))
	require.NoError(t, err)

	require.Len(t, report.References, 1)
	assert.Equal(t, imgA, report.References[0].Path)
	assert.Empty(t, report.Result.DeletablePaths())
}

func TestSweeper_UnresolvedReference(t *testing.T) {
	h := newHost(t)
	h.cacheFile("img-A", 48*time.Hour)
	disk := h.instance("vm-1", true)

	log := quietLogger(t)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.True(t, errors.Is(err, domain.ErrUnresolvedBackingFile))
	})

	provider := memory.NewDiskMetadata(map[string]string{disk: "/elsewhere/img-X"})
	s := sweeper.New(fs.NewScanner(), provider, telemetry.NewNoOp(), log)

	report, err := s.Run(context.Background(), h.plan(1))
	require.NoError(t, err)

	require.True(t, report.Result.HasUnresolved())
	assert.Equal(t, "/elsewhere/img-X", report.Result.Unresolved[0].Path)
	assert.Equal(t, disk, report.Result.Unresolved[0].Disk)
}

func TestSweeper_DiskWithoutBackingFile(t *testing.T) {
	h := newHost(t)
	imgA := h.cacheFile("img-A", 48*time.Hour)
	disk := h.instance("vm-1", true)
	noDisk := h.instance("vm-2", false)

	provider := memory.NewDiskMetadata(nil)
	s := sweeper.New(fs.NewScanner(), provider, telemetry.NewNoOp(), quietLogger(t))

	report, err := s.Run(context.Background(), h.plan(1))
	require.NoError(t, err)

	assert.Empty(t, report.References)
	assert.Equal(t, []string{imgA}, report.Result.DeletablePaths())
	assert.Equal(t, 1, provider.Calls(disk))
	assert.Zero(t, provider.Calls(noDisk))
}

func TestSweeper_Protected(t *testing.T) {
	h := newHost(t)
	imgA := h.cacheFile("img-A", 48*time.Hour)
	eph := h.cacheFile("ephemeral_10_default", 48*time.Hour)
	disk := h.instance("vm-1", true)

	protector, err := fs.NewProtector([]string{"ephemeral_*"})
	require.NoError(t, err)

	plan := h.plan(1)
	plan.Protected = protector.Protected

	provider := memory.NewDiskMetadata(map[string]string{disk: eph})
	s := sweeper.New(fs.NewScanner(), provider, telemetry.NewNoOp(), quietLogger(t))

	report, err := s.Run(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []string{imgA}, report.Result.DeletablePaths())
	assert.False(t, report.Result.HasUnresolved())
}

func TestSweeper_ParallelMatchesSerial(t *testing.T) {
	h := newHost(t)
	backing := make(map[string]string)
	for i := range 20 {
		img := h.cacheFile(fmt.Sprintf("img-%02d", i), 48*time.Hour)
		if i%3 == 0 {
			disk := h.instance(fmt.Sprintf("vm-%02d", i), true)
			backing[disk] = img
		}
	}
	h.cacheFile("young", time.Minute)
	backing[h.instance("vm-young", true)] = filepath.Join(h.instances, "_base", "young")
	backing[h.instance("vm-shared", true)] = filepath.Join(h.instances, "_base", "img-00")

	run := func(concurrency int) sweeper.Report {
		s := sweeper.New(fs.NewScanner(), memory.NewDiskMetadata(backing), telemetry.NewNoOp(), quietLogger(t))
		report, err := s.Run(context.Background(), h.plan(concurrency))
		require.NoError(t, err)
		return report
	}

	serial := run(1)
	parallel := run(8)

	// Ages differ between the two scans, so compare paths only.
	assert.Len(t, serial.Result.Deletable, 13)
	assert.Equal(t, serial.Result.DeletablePaths(), parallel.Result.DeletablePaths())
	assert.Equal(t, serial.Result.Used, parallel.Result.Used)
	assert.Equal(t, serial.Result.Unresolved, parallel.Result.Unresolved)
	assert.Equal(t, serial.References, parallel.References)
	assert.Equal(t, serial.Instances, parallel.Instances)
}

func TestSweeper_RelativeInstancesDir(t *testing.T) {
	h := newHost(t)
	imgA := h.cacheFile("img-A", 48*time.Hour)
	disk := h.instance("vm-1", true)
	t.Chdir(filepath.Dir(h.instances))

	plan := h.plan(1)
	plan.InstancesDir = "instances"

	s := sweeper.New(fs.NewScanner(), memory.NewDiskMetadata(map[string]string{disk: imgA}),
		telemetry.NewNoOp(), quietLogger(t))
	report, err := s.Run(context.Background(), plan)
	require.NoError(t, err)

	assert.Empty(t, report.Result.Deletable)
	assert.False(t, report.Result.HasUnresolved())
	assert.Equal(t, []string{imgA}, report.Result.Used)
}

func TestSweeper_InspectionErrorIsFatal(t *testing.T) {
	h := newHost(t)
	h.cacheFile("img-A", 48*time.Hour)
	disk := h.instance("vm-1", true)

	provider := memory.NewDiskMetadata(nil)
	provider.Fail(disk, errors.New("qemu-img exited with status 1"))

	s := sweeper.New(fs.NewScanner(), provider, telemetry.NewNoOp(), quietLogger(t))
	_, err := s.Run(context.Background(), h.plan(4))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDiskInspectionFailed))
}

func TestSweeper_CacheDirMissing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "instances")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vm-1"), 0o750))

	s := sweeper.New(fs.NewScanner(), memory.NewDiskMetadata(nil), telemetry.NewNoOp(), quietLogger(t))
	_, err := s.Run(context.Background(), sweeper.Plan{
		InstancesDir: root,
		CacheName:    "_base",
		DiskName:     "disk",
		MinAge:       day,
		Concurrency:  1,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCacheDirNotInInstances))
}

func TestSweeper_RecordsInspectionVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockFS := mocks.NewMockFileSystem(ctrl)
	mockTelemetry := mocks.NewMockTelemetry(ctrl)
	mockVertex := mocks.NewMockVertex(ctrl)
	mockProvider := mocks.NewMockDiskMetadataProvider(ctrl)

	entries := []domain.CacheEntry{{Path: "/i/_base/img-A", Age: 2 * day}}
	mockFS.EXPECT().EnumerateInstances("/i", "_base").
		Return([]domain.InstanceRecord{{Path: "/i/vm-1"}}, nil)
	mockFS.EXPECT().ScanCache("/i/_base", gomock.Any()).Return(entries, nil)
	mockFS.EXPECT().IsRegularFile("/i/vm-1/disk").Return(true, nil)

	ctx := context.Background()
	mockTelemetry.EXPECT().Record(gomock.Any(), "inspect /i/vm-1/disk").Return(ctx, mockVertex)
	mockProvider.EXPECT().BackingFile(gomock.Any(), "/i/vm-1/disk").Return("/i/_base/img-A", true, nil)
	gomock.InOrder(
		mockVertex.EXPECT().Log(domain.LogLevelDebug, "backing file /i/_base/img-A"),
		mockVertex.EXPECT().Complete(nil),
	)

	s := sweeper.New(mockFS, mockProvider, mockTelemetry, quietLogger(t))
	report, err := s.Run(ctx, sweeper.Plan{
		InstancesDir: "/i",
		CacheName:    "_base",
		DiskName:     "disk",
		MinAge:       day,
		Concurrency:  1,
	})

	require.NoError(t, err)
	assert.Empty(t, report.Result.Deletable)
}

func TestSweeper_FailedInspectionCompletesVertexWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockFS := mocks.NewMockFileSystem(ctrl)
	mockTelemetry := mocks.NewMockTelemetry(ctrl)
	mockVertex := mocks.NewMockVertex(ctrl)
	mockProvider := mocks.NewMockDiskMetadataProvider(ctrl)

	inspectErr := errors.New("boom")
	mockFS.EXPECT().EnumerateInstances("/i", "_base").
		Return([]domain.InstanceRecord{{Path: "/i/vm-1"}}, nil)
	mockFS.EXPECT().ScanCache("/i/_base", gomock.Any()).Return(nil, nil)
	mockFS.EXPECT().IsRegularFile("/i/vm-1/disk").Return(true, nil)
	mockTelemetry.EXPECT().Record(gomock.Any(), gomock.Any()).Return(context.Background(), mockVertex)
	mockProvider.EXPECT().BackingFile(gomock.Any(), "/i/vm-1/disk").Return("", false, inspectErr)
	mockVertex.EXPECT().Complete(inspectErr)

	s := sweeper.New(mockFS, mockProvider, mockTelemetry, quietLogger(t))
	_, err := s.Run(context.Background(), sweeper.Plan{
		InstancesDir: "/i",
		CacheName:    "_base",
		DiskName:     "disk",
		Concurrency:  1,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDiskInspectionFailed))
	assert.True(t, errors.Is(err, inspectErr))
}

func TestSweeper_StatErrorIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockFS := mocks.NewMockFileSystem(ctrl)
	mockProvider := mocks.NewMockDiskMetadataProvider(ctrl)

	mockFS.EXPECT().EnumerateInstances(gomock.Any(), gomock.Any()).
		Return([]domain.InstanceRecord{{Path: "/i/vm-1"}}, nil)
	mockFS.EXPECT().ScanCache(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockFS.EXPECT().IsRegularFile("/i/vm-1/disk").Return(false, os.ErrPermission)

	s := sweeper.New(mockFS, mockProvider, telemetry.NewNoOp(), quietLogger(t))
	_, err := s.Run(context.Background(), sweeper.Plan{InstancesDir: "/i", CacheName: "_base", DiskName: "disk"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInstanceScanFailed))
}
