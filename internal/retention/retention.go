// Package retention lists backup archives and prunes the oldest beyond a
// configured cap.
package retention

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dirvault/dirvault/internal/archive"
)

// Policy controls how many archives are kept.
type Policy struct {
	// MaxKept is the number of most recent archives to retain.
	// Values <= 0 disable pruning entirely.
	MaxKept int
}

// Enabled reports whether the policy prunes anything at all.
func (p Policy) Enabled() bool {
	return p.MaxKept > 0
}

// Info describes one archive file in the archive directory.
type Info struct {
	// Path is the absolute path of the archive file.
	Path string

	// Name is the archive filename.
	Name string

	// SizeBytes is the file size.
	SizeBytes int64

	// ModTime is the last-modified time, the ordering key for retention.
	ModTime time.Time
}

// List returns the archives in dir matching the naming convention, sorted
// newest first by modification time. Equal times are broken by filename
// descending, which for timestamped names is also newest first, keeping
// the order deterministic within a call. A missing directory yields an
// empty list, not an error.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading archive directory")
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !archive.MatchesName(entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			// File vanished between ReadDir and Info; skip it.
			continue
		}
		infos = append(infos, Info{
			Path:      filepath.Join(dir, entry.Name()),
			Name:      entry.Name(),
			SizeBytes: fi.Size(),
			ModTime:   fi.ModTime(),
		})
	}

	slices.SortFunc(infos, func(a, b Info) int {
		if a.ModTime.After(b.ModTime) {
			return -1
		}
		if a.ModTime.Before(b.ModTime) {
			return 1
		}
		if a.Name > b.Name {
			return -1
		}
		if a.Name < b.Name {
			return 1
		}
		return 0
	})

	return infos, nil
}

// Prune deletes archives in dir beyond the policy's cap, oldest first in
// the returned order, and reports the paths it deleted. Only files
// matching the archive naming convention are ever considered. A per-file
// deletion failure is logged and skipped; it does not abort pruning of
// the remaining files.
func Prune(dir string, policy Policy, logger *slog.Logger) ([]string, error) {
	if !policy.Enabled() {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	infos, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(infos) <= policy.MaxKept {
		return nil, nil
	}

	deleted := make([]string, 0, len(infos)-policy.MaxKept)
	for _, info := range infos[policy.MaxKept:] {
		if err := os.Remove(info.Path); err != nil {
			logger.Warn("failed to delete old archive", "path", info.Path, "error", err)
			continue
		}
		logger.Info("deleted old archive", "path", info.Path)
		deleted = append(deleted, info.Path)
	}

	return deleted, nil
}
