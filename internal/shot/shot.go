// Package shot defines the capture record model and the identifier and path
// scheme that maps a capture event to its storage location.
package shot

import "time"

// Record represents a stored capture. It is never persisted as a struct;
// it is reconstructed on demand from the filesystem tree.
type Record struct {
	// ID is the random 128-bit identifier in canonical lowercase hyphenated form
	ID string `json:"id"`

	// URL is the requested target, free-form text
	URL string `json:"url"`

	// CapturedAt is the timestamp of capture start
	CapturedAt time.Time `json:"captured_at"`

	// Partition is the calendar-date directory name derived from CapturedAt
	Partition string `json:"partition"`

	// FileName is "{id}_{originalName}"
	FileName string `json:"file_name"`

	// FilePath is the absolute path of the stored raster file
	FilePath string `json:"file_path"`

	// SizeBytes is the filesystem-observed file size, not authoritative
	SizeBytes int64 `json:"size_bytes"`
}

// Summary describes one stored file for listing. Files that do not match the
// expected naming pattern are still summarized with ID set to "unknown" —
// they are real artifacts even if their provenance is unclear.
type Summary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Partition  string    `json:"partition"`
	FilePath   string    `json:"file_path"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// UnknownID is the summary ID for files whose provenance is unclear.
const UnknownID = "unknown"
