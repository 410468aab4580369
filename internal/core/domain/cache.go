package domain

import "time"

// CacheEntry is a file found directly inside the image cache directory.
type CacheEntry struct {
	// Path is the absolute, cleaned path of the file.
	Path string
	// Age is the number of seconds between the last modification and the scan start.
	Age float64
	// Size is the file size in bytes.
	Size int64
	// ModTime is the last modification time of the file.
	ModTime time.Time
}

// OlderThan returns a predicate selecting entries whose age is at least minAge seconds.
func OlderThan(minAge float64) func(CacheEntry) bool {
	return func(e CacheEntry) bool {
		return e.Age >= minAge
	}
}

// InstanceRecord is a per-instance directory below the instances directory.
type InstanceRecord struct {
	Path string
}

// BackingReference is a backing file named by an instance disk.
type BackingReference struct {
	// Instance is the instance directory the disk belongs to.
	Instance string
	// Disk is the disk file that was inspected.
	Disk string
	// Path is the absolute, cleaned path of the backing file.
	Path string
}

// SweepRecord is the journal entry written after each run.
type SweepRecord struct {
	Time       time.Time `json:"time"`
	CacheDir   string    `json:"cacheDir"`
	Digest     string    `json:"digest"`
	Candidates []string  `json:"candidates"`
	Deleted    []string  `json:"deleted"`
	Unresolved []string  `json:"unresolved,omitempty"`
	DeleteRan  bool      `json:"deleteRan"`
}
