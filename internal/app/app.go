// Package app implements the application layer for basesweep.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.trai.ch/basesweep/internal/adapters/fs"
	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/basesweep/internal/engine/sweeper"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	settingsLoader ports.SettingsLoader
	novaReader     ports.NovaConfigReader
	fileSystem     ports.FileSystem
	diskFactory    ports.DiskMetadataFactory
	hasher         ports.PlanHasher
	journal        ports.Journal
	telemetry      ports.Telemetry
	logger         ports.Logger
	out            io.Writer
	now            func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.SettingsLoader,
	nova ports.NovaConfigReader,
	fileSystem ports.FileSystem,
	diskFactory ports.DiskMetadataFactory,
	hasher ports.PlanHasher,
	journal ports.Journal,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		settingsLoader: loader,
		novaReader:     nova,
		fileSystem:     fileSystem,
		diskFactory:    diskFactory,
		hasher:         hasher,
		journal:        journal,
		telemetry:      telemetry,
		logger:         log,
		out:            os.Stdout,
		now:            time.Now,
	}
}

// WithOutput sets the writer the deletion list is printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// ConfigPath is the settings file. ConfigExplicit marks it as given by the user.
	ConfigPath     string
	ConfigExplicit bool
	Overrides      domain.SettingsOverrides
	ReadNovaConf   bool
	NovaConfPath   string
	Verbose        bool
	Delete         bool
	// ExpectDigest, when set, must equal the plan digest for deletion to run.
	ExpectDigest string
}

// Run finds stale base images, prints them and removes them when asked to.
//
// Nothing is removed if any instance references a backing file that is
// missing from the cache, or if the plan does not match ExpectDigest.
//
//nolint:cyclop // orchestration function
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	a.logger.SetVerbose(opts.Verbose)
	defer func() {
		_ = a.telemetry.Close()
	}()

	// 1. Resolve settings
	settings, err := a.resolveSettings(opts)
	if err != nil {
		return err
	}

	protector, err := fs.NewProtector(settings.Protect)
	if err != nil {
		return err
	}

	// 2. Sweep
	sw := sweeper.New(a.fileSystem, a.diskFactory.Provider(settings.Inspection()), a.telemetry, a.logger)
	report, err := sw.Run(ctx, sweeper.Plan{
		InstancesDir: settings.InstancesDir(),
		CacheName:    settings.CacheName,
		DiskName:     settings.DiskName,
		MinAge:       settings.MinAge,
		Concurrency:  settings.Concurrency,
		Protected:    protector.Protected,
	})
	if err != nil {
		return zerr.Wrap(err, "sweep failed")
	}

	result := report.Result
	digest := a.hasher.PlanDigest(result.Deletable)
	a.logger.Info(fmt.Sprintf("deletion plan %s: %d of %d cache files, %s reclaimable",
		digest, len(result.Deletable), len(report.Entries), humanize.IBytes(result.ReclaimableBytes())))
	for _, e := range result.Deletable {
		a.logger.Debug(fmt.Sprintf("old file %s (%s, modified %s)",
			e.Path, humanize.IBytes(uint64(max(e.Size, 0))), humanize.RelTime(e.ModTime, a.now(), "ago", "from now")))
	}

	// 3. Decide whether deletion may run
	var errs error
	deleteAllowed := opts.Delete

	if result.HasUnresolved() {
		errs = errors.Join(errs, unresolvedError(result.Unresolved))
		if deleteAllowed {
			a.logger.Warn("unresolved backing files, deactivating deletion")
			deleteAllowed = false
		}
	}

	if deleteAllowed && opts.ExpectDigest != "" && opts.ExpectDigest != digest {
		mismatch := zerr.Wrap(domain.ErrPlanDigestMismatch, "refusing to delete")
		mismatch = zerr.With(mismatch, "expected_digest", opts.ExpectDigest)
		errs = errors.Join(errs, zerr.With(mismatch, "actual_digest", digest))
		deleteAllowed = false
	}

	if deleteAllowed && ctx.Err() != nil {
		return errors.Join(errs, ctx.Err())
	}

	// 4. Print, and remove
	deleted, removeErr := a.printAndRemove(ctx, result.Deletable, deleteAllowed)
	errs = errors.Join(errs, removeErr)

	if deleteAllowed {
		var freed uint64
		for _, e := range deleted {
			freed += uint64(max(e.Size, 0))
		}
		a.logger.Info(fmt.Sprintf("removed %d cache files, freed %s", len(deleted), humanize.IBytes(freed)))
	}

	// 5. Journal
	if settings.Journal != "" {
		record := a.record(settings, digest, result, deleted, deleteAllowed)
		if err := a.journal.Append(settings.Journal, record); err != nil {
			a.logger.Error(err)
		}
	}

	return errs
}

func (a *App) resolveSettings(opts RunOptions) (domain.Settings, error) {
	settings, err := a.settingsLoader.Load(opts.ConfigPath, opts.ConfigExplicit)
	if err != nil {
		return domain.Settings{}, zerr.Wrap(err, "failed to load settings")
	}
	settings = opts.Overrides.Apply(settings)

	if opts.ReadNovaConf {
		paths, err := a.novaReader.Read(opts.NovaConfPath)
		if err != nil {
			a.logger.Warn(fmt.Sprintf("ignoring %s: %v", opts.NovaConfPath, err))
		} else {
			settings = settings.ApplyNova(paths)
		}
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}

	// Backing file names reported by qemu-img are absolute.
	statePath, err := filepath.Abs(settings.StatePath)
	if err != nil {
		err = zerr.Wrap(errors.Join(domain.ErrInvalidSettings, err), "failed to resolve state path")
		return domain.Settings{}, zerr.With(err, "state_path", settings.StatePath)
	}
	settings.StatePath = statePath

	a.logger.Debug(fmt.Sprintf("instances %s, cache %s, minimum age %s",
		settings.InstancesDir(), settings.CacheDir(),
		time.Duration(settings.MinAge*float64(time.Second)).String()))
	return settings, nil
}

// printAndRemove writes each path to the output and, when remove is set,
// deletes the file right after. Removal failures do not stop the loop.
func (a *App) printAndRemove(
	ctx context.Context,
	entries []domain.CacheEntry,
	remove bool,
) ([]domain.CacheEntry, error) {
	var errs error
	deleted := make([]domain.CacheEntry, 0, len(entries))

	for _, e := range entries {
		_, _ = fmt.Fprintln(a.out, e.Path)
		if !remove {
			continue
		}
		if err := ctx.Err(); err != nil {
			a.logger.Warn("interrupted, no further files are removed")
			errs = errors.Join(errs, err)
			remove = false
			continue
		}
		if err := a.fileSystem.Remove(e.Path); err != nil {
			a.logger.Error(err)
			errs = errors.Join(errs, err)
			continue
		}
		a.logger.Debug("removed " + e.Path)
		deleted = append(deleted, e)
	}

	return deleted, errs
}

func (a *App) record(
	settings domain.Settings,
	digest string,
	result domain.ReconcileResult,
	deleted []domain.CacheEntry,
	deleteRan bool,
) domain.SweepRecord {
	rec := domain.SweepRecord{
		Time:       a.now().UTC(),
		CacheDir:   settings.CacheDir(),
		Digest:     digest,
		Candidates: result.DeletablePaths(),
		Deleted:    make([]string, 0, len(deleted)),
		DeleteRan:  deleteRan,
	}
	for _, e := range deleted {
		rec.Deleted = append(rec.Deleted, e.Path)
	}
	for _, u := range result.Unresolved {
		rec.Unresolved = append(rec.Unresolved, u.Path)
	}
	return rec
}

func unresolvedError(refs []domain.BackingReference) error {
	paths := make([]string, len(refs))
	for i, r := range refs {
		paths[i] = r.Path
	}
	err := zerr.Wrap(domain.ErrUnresolvedBackingFile,
		fmt.Sprintf("%d referenced backing files are not in the image cache", len(refs)))
	return zerr.With(err, "backing_files", strings.Join(paths, ","))
}
