package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// DefaultStatePath is the Nova state directory.
	DefaultStatePath = "/var/lib/nova"
	// DefaultInstancesName is the name of the instances directory below the state path.
	DefaultInstancesName = "instances"
	// DefaultCacheName is the name of the image cache directory below the instances directory.
	DefaultCacheName = "_base"
	// DefaultMinAge is the minimum age in seconds before a cache file may be removed.
	DefaultMinAge = 86400
	// DefaultDiskName is the file name of an instance's root disk.
	DefaultDiskName = "disk"
	// DefaultQemuImg is the disk inspection binary.
	DefaultQemuImg = "qemu-img"
	// DefaultSettingsPath is where the settings file is looked up when --config is not given.
	DefaultSettingsPath = "/etc/basesweep/basesweep.yaml"
	// DefaultNovaConfPath is the location of the Nova configuration file.
	DefaultNovaConfPath = "/etc/nova/nova.conf"
)

// Settings holds the effective configuration of a run.
type Settings struct {
	StatePath     string
	InstancesName string
	CacheName     string
	MinAge        float64
	DiskName      string
	QemuImg       string
	ForceShare    bool
	Concurrency   int
	Protect       []string
	Journal       string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		StatePath:     DefaultStatePath,
		InstancesName: DefaultInstancesName,
		CacheName:     DefaultCacheName,
		MinAge:        DefaultMinAge,
		DiskName:      DefaultDiskName,
		QemuImg:       DefaultQemuImg,
		ForceShare:    true,
		Concurrency:   1,
	}
}

// InstancesDir returns the absolute path of the instances directory.
func (s Settings) InstancesDir() string {
	return filepath.Join(s.StatePath, s.InstancesName)
}

// CacheDir returns the absolute path of the image cache directory.
func (s Settings) CacheDir() string {
	return filepath.Join(s.StatePath, s.InstancesName, s.CacheName)
}

// Inspection returns the settings relevant to the disk inspection tool.
func (s Settings) Inspection() InspectionSettings {
	return InspectionSettings{Binary: s.QemuImg, ForceShare: s.ForceShare}
}

// Validate checks that the settings describe a usable run.
func (s Settings) Validate() error {
	switch {
	case s.StatePath == "":
		return zerr.Wrap(ErrInvalidSettings, "state path must not be empty")
	case s.InstancesName == "" || strings.ContainsRune(s.InstancesName, filepath.Separator):
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "instances name must be a single path element"),
			"instances_name", s.InstancesName)
	case s.CacheName == "" || strings.ContainsRune(s.CacheName, filepath.Separator):
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "cache name must be a single path element"),
			"cache_name", s.CacheName)
	case s.MinAge < 0:
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "minimum age must not be negative"), "min_age", s.MinAge)
	case s.DiskName == "":
		return zerr.Wrap(ErrInvalidSettings, "disk name must not be empty")
	case s.QemuImg == "":
		return zerr.Wrap(ErrInvalidSettings, "qemu-img path must not be empty")
	case s.Concurrency < 1:
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "concurrency must be at least 1"),
			"concurrency", s.Concurrency)
	}
	return nil
}

// InspectionSettings configures the disk inspection tool.
type InspectionSettings struct {
	Binary     string
	ForceShare bool
}

// SettingsOverrides carries values given explicitly on the command line.
// Nil fields leave the underlying setting untouched.
type SettingsOverrides struct {
	StatePath     *string
	InstancesName *string
	CacheName     *string
	MinAge        *float64
	QemuImg       *string
	Concurrency   *int
	Journal       *string
}

// Apply returns s with every non-nil override applied.
func (o SettingsOverrides) Apply(s Settings) Settings {
	if o.StatePath != nil {
		s.StatePath = *o.StatePath
	}
	if o.InstancesName != nil {
		s.InstancesName = *o.InstancesName
	}
	if o.CacheName != nil {
		s.CacheName = *o.CacheName
	}
	if o.MinAge != nil {
		s.MinAge = *o.MinAge
	}
	if o.QemuImg != nil {
		s.QemuImg = *o.QemuImg
	}
	if o.Concurrency != nil {
		s.Concurrency = *o.Concurrency
	}
	if o.Journal != nil {
		s.Journal = *o.Journal
	}
	return s
}

// NovaPaths are the path settings found in nova.conf. Empty fields were absent.
type NovaPaths struct {
	StatePath     string
	InstancesPath string
	CacheName     string
}

// ApplyNova returns s with the values found in nova.conf applied.
// InstancesPath is an absolute directory and is split into state path and
// instances name.
func (s Settings) ApplyNova(p NovaPaths) Settings {
	if p.StatePath != "" {
		s.StatePath = p.StatePath
	}
	if p.InstancesPath != "" {
		instances := filepath.Clean(p.InstancesPath)
		s.StatePath = filepath.Dir(instances)
		s.InstancesName = filepath.Base(instances)
	}
	if p.CacheName != "" {
		s.CacheName = p.CacheName
	}
	return s
}
