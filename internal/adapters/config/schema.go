package config

// Settingsfile represents the structure of the basesweep.yaml settings file.
// Pointer fields distinguish absent keys from zero values.
type Settingsfile struct {
	StatePath     *string  `yaml:"state_path"`
	InstancesName *string  `yaml:"instances_name"`
	CacheName     *string  `yaml:"cache_name"`
	MinAge        *float64 `yaml:"min_age"`
	DiskName      *string  `yaml:"disk_name"`
	QemuImg       *string  `yaml:"qemu_img"`
	ForceShare    *bool    `yaml:"force_share"`
	Concurrency   *int     `yaml:"concurrency"`
	Protect       []string `yaml:"protect"`
	Journal       *string  `yaml:"journal"`
}
