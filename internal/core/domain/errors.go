package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigReadFailed is returned when the settings file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the settings file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidSettings is returned when the effective settings are unusable.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrInvalidProtectPattern is returned when a protect glob cannot be compiled.
	ErrInvalidProtectPattern = zerr.New("invalid protect pattern")

	// ErrNovaConfigUnreadable is returned when nova.conf cannot be loaded.
	// Callers treat it as a warning.
	ErrNovaConfigUnreadable = zerr.New("could not read nova configuration")

	// ErrCacheScanFailed is returned when the image cache directory cannot be listed.
	ErrCacheScanFailed = zerr.New("failed to scan image cache")

	// ErrInstanceScanFailed is returned when the instances directory cannot be listed.
	ErrInstanceScanFailed = zerr.New("failed to enumerate instances")

	// ErrCacheDirNotInInstances is returned when the image cache directory is not
	// one of the children of the instances directory.
	ErrCacheDirNotInInstances = zerr.New("image cache directory not found among instance directories")

	// ErrDiskInspectionFailed is returned when the disk inspection tool fails or
	// produces output that cannot be interpreted.
	ErrDiskInspectionFailed = zerr.New("disk inspection failed")

	// ErrUnexpectedInspectionOutput is returned when the inspection output has an unexpected shape.
	ErrUnexpectedInspectionOutput = zerr.New("unexpected disk inspection output")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrUnresolvedBackingFile is returned when an instance references a backing
	// file that is not present in the image cache.
	ErrUnresolvedBackingFile = zerr.New("unable to locate backing file")

	// ErrPlanDigestMismatch is returned when the deletion plan differs from the expected digest.
	ErrPlanDigestMismatch = zerr.New("deletion plan does not match expected digest")

	// ErrRemoveFailed is returned when a cache file cannot be removed.
	ErrRemoveFailed = zerr.New("failed to remove cache file")

	// ErrJournalReadFailed is returned when the journal cannot be read.
	ErrJournalReadFailed = zerr.New("failed to read journal")

	// ErrJournalWriteFailed is returned when the journal cannot be written.
	ErrJournalWriteFailed = zerr.New("failed to write journal")
)
