package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/flate"

	"github.com/dirvault/dirvault/internal/paths"
)

// Builder writes timestamped zip archives of a directory tree.
type Builder struct {
	exclusions *ExclusionSet
	now        func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithExclusions sets the exclusion rules applied during the walk.
func WithExclusions(s *ExclusionSet) Option {
	return func(b *Builder) {
		if s != nil {
			b.exclusions = s
		}
	}
}

// WithClock overrides the time source used for archive naming.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a Builder with the given options. Without options it
// excludes nothing beyond prior archives (self-exclusion always applies).
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		exclusions: NewExclusionSet(nil, nil),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build archives every non-excluded file under root into a new zip file
// in destDir and returns a description of the produced archive.
//
// The walk is depth-first with excluded directories pruned before descent,
// so excluded subtrees are never opened. Entry names are slash-separated
// paths relative to root. Any failure aborts the whole build; a partial
// archive file is removed best-effort and an error is returned. A nil
// error implies the archive at Archive.Path is complete and closed.
func (b *Builder) Build(root, destDir string) (*Archive, error) {
	createdAt := b.now()
	archivePath := filepath.Join(destDir, Name(createdAt))

	if err := paths.EnsureDir(destDir, 0); err != nil {
		return nil, errors.Wrap(err, "creating archive directory")
	}

	// Second-granularity names can collide when two builds run within the
	// same second. Refuse rather than truncate a completed archive.
	if _, err := os.Stat(archivePath); err == nil {
		return nil, errors.Wrapf(ErrArchiveExists, "%s", archivePath)
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return nil, errors.Wrap(err, "creating archive file")
	}

	count, err := b.writeEntries(f, root)
	if err != nil {
		f.Close()
		// Do not leave a half-written archive behind.
		if rmErr := os.Remove(archivePath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.CombineErrors(err, rmErr)
		}
		return nil, err
	}

	if err := f.Close(); err != nil {
		os.Remove(archivePath)
		return nil, errors.Wrap(err, "closing archive file")
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, errors.Wrap(err, "stat archive file")
	}

	return &Archive{
		Path:      archivePath,
		SizeBytes: info.Size(),
		FileCount: count,
		CreatedAt: createdAt,
	}, nil
}

// writeEntries walks root and streams retained files into a zip container
// written to w. Returns the number of file entries written.
func (b *Builder) writeEntries(w io.Writer, root string) (int, error) {
	zw := zip.NewWriter(w)
	// Route Deflate through klauspost's flate, which is considerably
	// faster than the standard implementation at equivalent ratios.
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && b.exclusions.ExcludesDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if b.exclusions.ExcludesFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Wrapf(err, "relativizing %s", path)
		}

		info, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, "stat %s", path)
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return errors.Wrapf(err, "building header for %s", path)
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return errors.Wrapf(err, "creating entry %s", header.Name)
		}

		src, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "opening %s", path)
		}
		_, err = io.Copy(entry, src)
		closeErr := src.Close()
		if err != nil {
			return errors.Wrapf(err, "writing entry %s", header.Name)
		}
		if closeErr != nil {
			return errors.Wrapf(closeErr, "closing %s", path)
		}

		count++
		return nil
	})
	if err != nil {
		zw.Close()
		return 0, errors.Wrap(err, "archiving")
	}

	if err := zw.Close(); err != nil {
		return 0, errors.Wrap(err, "finalizing archive")
	}
	return count, nil
}
