// Package sweeper resolves instance backing files against the image cache.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Plan describes a single sweep.
type Plan struct {
	InstancesDir string
	CacheName    string
	DiskName     string
	MinAge       float64
	// Concurrency bounds the number of disks inspected at once.
	Concurrency int
	// Protected reports cache files that must never be deletion candidates. May be nil.
	Protected func(domain.CacheEntry) bool
}

// CacheDir returns the image cache directory of the plan.
func (p Plan) CacheDir() string {
	return filepath.Join(p.InstancesDir, p.CacheName)
}

func (p Plan) isCandidate() func(domain.CacheEntry) bool {
	old := domain.OlderThan(p.MinAge)
	if p.Protected == nil {
		return old
	}
	return func(e domain.CacheEntry) bool {
		return old(e) && !p.Protected(e)
	}
}

// Report is the outcome of a sweep.
type Report struct {
	Entries    []domain.CacheEntry
	Instances  []domain.InstanceRecord
	References []domain.BackingReference
	Result     domain.ReconcileResult
}

// Sweeper finds cache files that no instance disk uses as its backing file.
type Sweeper struct {
	fs        ports.FileSystem
	provider  ports.DiskMetadataProvider
	telemetry ports.Telemetry
	logger    ports.Logger
	now       func() time.Time
}

// New creates a new Sweeper.
func New(
	fs ports.FileSystem,
	provider ports.DiskMetadataProvider,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Sweeper {
	return &Sweeper{
		fs:        fs,
		provider:  provider,
		telemetry: telemetry,
		logger:    logger,
		now:       time.Now,
	}
}

// Run scans the cache and the instances, inspects every instance disk and
// reconciles the backing files against the cache.
//
// Any filesystem or inspection error aborts the sweep. Unresolved references
// are not errors here; they are reported in the result.
func (s *Sweeper) Run(ctx context.Context, plan Plan) (Report, error) {
	instancesDir, err := filepath.Abs(plan.InstancesDir)
	if err != nil {
		err = zerr.Wrap(errors.Join(domain.ErrInstanceScanFailed, err), "failed to resolve instances directory")
		return Report{}, zerr.With(err, "instances_dir", plan.InstancesDir)
	}
	plan.InstancesDir = instancesDir

	instances, err := s.fs.EnumerateInstances(plan.InstancesDir, plan.CacheName)
	if err != nil {
		return Report{}, err
	}

	entries, err := s.fs.ScanCache(plan.CacheDir(), s.now())
	if err != nil {
		return Report{}, err
	}
	s.logger.Debug(fmt.Sprintf("scanned %d cache files and %d instances", len(entries), len(instances)))

	refs, err := s.resolve(ctx, instances, plan)
	if err != nil {
		return Report{}, err
	}

	reconciler := domain.NewReconciler(entries, plan.isCandidate())
	for _, ref := range refs {
		switch reconciler.Apply(ref) {
		case domain.OutcomeInUse:
			s.logger.Debug("in use: " + ref.Path + " (" + ref.Instance + ")")
		case domain.OutcomeUnresolved:
			s.logger.Error(zerr.With(zerr.With(
				zerr.Wrap(domain.ErrUnresolvedBackingFile, "backing file is not in the image cache"),
				"backing_file", ref.Path), "instance", ref.Instance))
		case domain.OutcomeAlreadyUsed, domain.OutcomeKnown:
		}
	}

	return Report{
		Entries:    entries,
		Instances:  instances,
		References: refs,
		Result:     reconciler.Result(),
	}, nil
}

// resolve inspects the instance disks with bounded concurrency and returns
// the references in instance order.
func (s *Sweeper) resolve(
	ctx context.Context,
	instances []domain.InstanceRecord,
	plan Plan,
) ([]domain.BackingReference, error) {
	resolved := make([]*domain.BackingReference, len(instances))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(plan.Concurrency, 1))

	for i, inst := range instances {
		g.Go(func() error {
			ref, err := s.resolveOne(groupCtx, inst, plan.DiskName)
			if err != nil {
				return err
			}
			resolved[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]domain.BackingReference, 0, len(resolved))
	for _, ref := range resolved {
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, nil
}

func (s *Sweeper) resolveOne(
	ctx context.Context,
	inst domain.InstanceRecord,
	diskName string,
) (*domain.BackingReference, error) {
	disk := filepath.Join(inst.Path, diskName)

	ok, err := s.fs.IsRegularFile(disk)
	if err != nil {
		err = zerr.Wrap(errors.Join(domain.ErrInstanceScanFailed, err), "failed to stat disk")
		return nil, zerr.With(err, "disk", disk)
	}
	if !ok {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, vertex := s.telemetry.Record(ctx, "inspect "+disk)
	backing, found, err := s.provider.BackingFile(ctx, disk)
	if err != nil {
		vertex.Complete(err)
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrDiskInspectionFailed, err), "failed to inspect disk"),
			"disk", disk)
	}
	defer vertex.Complete(nil)

	if !found {
		vertex.Log(domain.LogLevelDebug, "no backing file")
		return nil, nil
	}

	if !filepath.IsAbs(backing) {
		backing = filepath.Join(filepath.Dir(disk), backing)
	}
	backing = filepath.Clean(backing)
	vertex.Log(domain.LogLevelDebug, "backing file "+backing)

	return &domain.BackingReference{Instance: inst.Path, Disk: disk, Path: backing}, nil
}
