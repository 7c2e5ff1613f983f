// Package index resolves capture records from the date-partitioned storage
// tree. There is no persistent index structure: the filesystem tree IS the
// index, and every call re-scans it from scratch.
package index

import (
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"shutter/internal/errors"
	"shutter/internal/logging"
	"shutter/internal/shot"
)

// DefaultListLimit is applied when a caller passes no limit.
const DefaultListLimit = 50

// Index scans a storage root on demand.
type Index struct {
	root   string
	logger *zap.Logger
}

// New creates an Index over the given storage root.
func New(root string, logger *zap.Logger) *Index {
	return &Index{root: root, logger: logging.OrNop(logger)}
}

// FindByID scans partition directories for the file claimed by id and
// returns its absolute path. Exactly one file should carry the id prefix;
// additional matches are a data-integrity anomaly — the first match wins,
// but every extra is logged for diagnosis.
func (ix *Index) FindByID(id string) (string, error) {
	if id == "" {
		return "", errors.NewInvalidRequest("screenshot_id is required")
	}

	partitions, err := ix.partitions()
	if err != nil {
		return "", err
	}

	var found string
	extras := 0
	for _, partition := range partitions {
		entries, err := os.ReadDir(filepath.Join(ix.root, partition))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !shot.MatchID(entry.Name(), id) {
				continue
			}
			path := filepath.Join(ix.root, partition, entry.Name())
			if found == "" {
				found = path
				continue
			}
			extras++
			ix.logger.Warn("duplicate file for screenshot id",
				zap.String("screenshot_id", id),
				zap.String("kept", found),
				zap.String("duplicate", path),
			)
		}
	}

	if found == "" {
		return "", errors.NewNotFound(id)
	}
	if extras > 0 {
		ix.logger.Warn("integrity anomaly: id claimed by multiple files",
			zap.String("screenshot_id", id),
			zap.Int("extra_matches", extras),
		)
	}
	return found, nil
}

// ListAll enumerates every raster file under every partition directory,
// newest-modified first, truncated to limit entries only after sorting.
// Files that do not match the naming pattern are listed with ID "unknown";
// hiding them would hide real artifacts (e.g. orphans from failed claims).
func (ix *Index) ListAll(limit int) ([]shot.Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	partitions, err := ix.partitions()
	if err != nil {
		return nil, err
	}

	summaries := make([]shot.Summary, 0)
	for _, partition := range partitions {
		entries, err := os.ReadDir(filepath.Join(ix.root, partition))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}

			id := shot.UnknownID
			if parsed, _, ok := shot.ParseFileName(entry.Name()); ok {
				id = parsed
			}

			summaries = append(summaries, shot.Summary{
				ID:         id,
				FileName:   entry.Name(),
				Partition:  partition,
				FilePath:   filepath.Join(ix.root, partition, entry.Name()),
				SizeBytes:  info.Size(),
				ModifiedAt: info.ModTime(),
			})
		}
	}

	// Sort the full set before truncating: truncating per-partition would
	// bias toward whichever directory is scanned first.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ModifiedAt.After(summaries[j].ModifiedAt)
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// partitions returns the valid partition directory names under the root.
// A missing root means no captures yet, not an error. Non-date entries
// (including the renderer's side database file) are skipped.
func (ix *Index) partitions() ([]string, error) {
	entries, err := os.ReadDir(ix.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewInternal(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !shot.ValidPartition(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
