package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// StorageRoot is the directory holding date-partitioned screenshot
	// subdirectories. Defaults to <baseDir>/screenshots.
	StorageRoot string `json:"storage_root,omitempty"`

	// RendererCandidates is the ordered list of renderer binary locations
	// to probe. The first one that answers a liveness check is used for the
	// process lifetime.
	RendererCandidates []string `json:"renderer_candidates,omitempty"`

	// Capture defaults (viewport, pre-capture delay, subprocess timeout).
	DefaultWidth          int `json:"default_width,omitempty"`
	DefaultHeight         int `json:"default_height,omitempty"`
	DefaultDelaySeconds   int `json:"default_delay_seconds,omitempty"`
	DefaultTimeoutSeconds int `json:"default_timeout_seconds,omitempty"`

	// Re-encode defaults.
	DefaultQuality int    `json:"default_quality,omitempty"`
	DefaultFormat  string `json:"default_format,omitempty"`
	MaxImageWidth  int    `json:"max_image_width,omitempty"`
	MaxImageHeight int    `json:"max_image_height,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// JournalDisabled turns off the best-effort capture journal.
	JournalDisabled bool `json:"journal_disabled,omitempty"`

	// Development switches the logger to human-readable output.
	Development bool `json:"development,omitempty"`
}

// DefaultConfig returns the default configuration. StorageRoot is left empty
// here because it depends on baseDir; Load fills it in.
func DefaultConfig() *Config {
	return &Config{
		RendererCandidates: []string{
			"webshot",
			"/usr/local/bin/webshot",
			"/opt/webshot/bin/webshot",
		},
		DefaultWidth:          1200,
		DefaultHeight:         800,
		DefaultDelaySeconds:   3,
		DefaultTimeoutSeconds: 10,
		DefaultQuality:        80,
		DefaultFormat:         "jpeg",
		MaxImageWidth:         1200,
		MaxImageHeight:        800,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.shutter.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}

	merged := Merge(DefaultConfig(), cfg)
	if merged.StorageRoot == "" {
		merged.StorageRoot = filepath.Join(baseDir, "screenshots")
	}
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; RendererCandidates is replaced
// wholesale when the overlay sets it (order is the resolution contract, so
// merging the two lists would scramble precedence). DisabledTools is merged
// and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.StorageRoot = overlay.StorageRoot
	if result.StorageRoot == "" {
		result.StorageRoot = base.StorageRoot
	}

	result.RendererCandidates = overlay.RendererCandidates
	if len(result.RendererCandidates) == 0 {
		result.RendererCandidates = base.RendererCandidates
	}

	result.DefaultWidth = intOr(overlay.DefaultWidth, base.DefaultWidth)
	result.DefaultHeight = intOr(overlay.DefaultHeight, base.DefaultHeight)
	result.DefaultDelaySeconds = intOr(overlay.DefaultDelaySeconds, base.DefaultDelaySeconds)
	result.DefaultTimeoutSeconds = intOr(overlay.DefaultTimeoutSeconds, base.DefaultTimeoutSeconds)
	result.DefaultQuality = intOr(overlay.DefaultQuality, base.DefaultQuality)
	result.MaxImageWidth = intOr(overlay.MaxImageWidth, base.MaxImageWidth)
	result.MaxImageHeight = intOr(overlay.MaxImageHeight, base.MaxImageHeight)

	result.DefaultFormat = overlay.DefaultFormat
	if result.DefaultFormat == "" {
		result.DefaultFormat = base.DefaultFormat
	}

	result.JournalDisabled = base.JournalDisabled || overlay.JournalDisabled
	result.Development = base.Development || overlay.Development

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func intOr(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
