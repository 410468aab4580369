// Package novaconf reads the path settings of a Nova compute host from nova.conf.
package novaconf

import (
	"errors"
	"strings"

	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/basesweep/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/ini.v1"
)

const (
	keyStatePath     = "state_path"
	keyInstancesPath = "instances_path"
	keyCacheName     = "image_cache_subdirectory_name"
)

var _ ports.NovaConfigReader = (*Reader)(nil)

// Reader implements ports.NovaConfigReader using an INI parser.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read returns the path values present in the [DEFAULT] section of the file at path.
// $state_path references in instances_path are expanded.
func (r *Reader) Read(path string) (domain.NovaPaths, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: false, IgnoreInlineComment: true}, path)
	if err != nil {
		return domain.NovaPaths{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrNovaConfigUnreadable, err), "failed to read nova configuration"),
			"path", path)
	}

	section := cfg.Section(ini.DefaultSection)
	paths := domain.NovaPaths{
		StatePath:     value(section, keyStatePath),
		InstancesPath: value(section, keyInstancesPath),
		CacheName:     value(section, keyCacheName),
	}

	if paths.InstancesPath != "" {
		statePath := paths.StatePath
		if statePath == "" {
			statePath = domain.DefaultStatePath
		}
		paths.InstancesPath = expandStatePath(paths.InstancesPath, statePath)
	}
	return paths, nil
}

func value(section *ini.Section, key string) string {
	if !section.HasKey(key) {
		return ""
	}
	return strings.TrimSpace(section.Key(key).String())
}

func expandStatePath(s, statePath string) string {
	s = strings.ReplaceAll(s, "${"+keyStatePath+"}", statePath)
	return strings.ReplaceAll(s, "$"+keyStatePath, statePath)
}
