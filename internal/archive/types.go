package archive

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Archive naming convention. Names embed a local timestamp at second
// granularity so lexical and chronological order agree:
//
//	dirvault_backup_20260823_153045.zip
const (
	// NamePrefix is the fixed literal prefix of every archive file.
	NamePrefix = "dirvault_backup_"

	// NameSuffix is the archive file extension.
	NameSuffix = ".zip"

	// TimestampLayout formats the embedded timestamp.
	TimestampLayout = "20060102_150405"
)

// Sentinel errors for archive operations.
var (
	// ErrArchiveExists indicates the target archive file already exists,
	// which happens when two builds land in the same second.
	ErrArchiveExists = errors.New("archive already exists")
)

// Archive describes a successfully built archive file.
type Archive struct {
	// Path is the absolute path of the archive file.
	Path string

	// SizeBytes is the archive file size after the writer is closed.
	SizeBytes int64

	// FileCount is the number of file entries written.
	FileCount int

	// CreatedAt is the timestamp embedded in the archive name.
	CreatedAt time.Time
}

// Name returns the archive filename for the given timestamp.
func Name(t time.Time) string {
	return NamePrefix + t.Format(TimestampLayout) + NameSuffix
}

// MatchesName reports whether a filename follows the archive naming
// convention. Matching files are skipped during the walk (self-exclusion)
// and are the only files retention ever deletes.
func MatchesName(name string) bool {
	return strings.HasPrefix(name, NamePrefix) && strings.HasSuffix(name, NameSuffix)
}

// ParseNameTime extracts the timestamp embedded in an archive filename.
// Returns false if the name does not follow the convention.
func ParseNameTime(name string) (time.Time, bool) {
	if !MatchesName(name) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, NamePrefix), NameSuffix)
	t, err := time.ParseInLocation(TimestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
