// Package config provides the settings file loader for basesweep.
package config

import (
	"bytes"
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.SettingsLoader = (*Loader)(nil)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log}
}

// Load reads the settings file at path and merges it over the defaults.
func (l *Loader) Load(path string, explicit bool) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) && !explicit {
			l.Logger.Debug("no settings file at " + path + ", using defaults")
			return settings, nil
		}
		return domain.Settings{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "failed to read settings file"),
			"path", path)
	}

	var file Settingsfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return domain.Settings{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "failed to parse settings file"),
			"path", path)
	}

	l.Logger.Debug("loaded settings from " + path)
	return file.apply(settings), nil
}

func (f *Settingsfile) apply(s domain.Settings) domain.Settings {
	setString(&s.StatePath, f.StatePath)
	setString(&s.InstancesName, f.InstancesName)
	setString(&s.CacheName, f.CacheName)
	setString(&s.DiskName, f.DiskName)
	setString(&s.QemuImg, f.QemuImg)
	setString(&s.Journal, f.Journal)
	if f.MinAge != nil {
		s.MinAge = *f.MinAge
	}
	if f.ForceShare != nil {
		s.ForceShare = *f.ForceShare
	}
	if f.Concurrency != nil {
		s.Concurrency = *f.Concurrency
	}
	if f.Protect != nil {
		s.Protect = append([]string(nil), f.Protect...)
	}
	return s
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}
