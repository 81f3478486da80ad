package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root from a map of relative path to content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// entryNames opens a zip archive and returns its entry names.
func entryNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

// readEntry returns the uncompressed content of a single entry.
func readEntry(t *testing.T, path, name string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("entry %q not found in %s", name, path)
	return ""
}

func TestBuild_ExcludesDirsAndSuffixes(t *testing.T) {
	root := t.TempDir()
	dest := t.TempDir()

	writeTree(t, root, map[string]string{
		"app/main.bin":     "binary",
		"app/.venv/lib.so": "library",
		"app/cache.log":    "log data",
	})

	b := NewBuilder(WithExclusions(NewExclusionSet(
		[]string{".venv"},
		[]string{".log"},
	)))

	arc, err := b.Build(root, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"app/main.bin"}, entryNames(t, arc.Path))
	assert.Equal(t, 1, arc.FileCount)
	assert.Positive(t, arc.SizeBytes)
}

func TestBuild_PrunesExcludedSubtreeBeforeDescent(t *testing.T) {
	root := t.TempDir()
	dest := t.TempDir()

	writeTree(t, root, map[string]string{
		"keep.txt":                    "keep",
		"node_modules/a/b/c/deep.js":  "never read",
		"src/node_modules/nested.js":  "never read",
		"src/ok.go":                   "package ok",
		"__pycache__/mod.cpython.pyc": "bytecode",
	})

	b := NewBuilder(WithExclusions(NewExclusionSet(
		[]string{"node_modules", "__pycache__"},
		nil,
	)))

	arc, err := b.Build(root, dest)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"keep.txt", "src/ok.go"}, entryNames(t, arc.Path))
}

func TestBuild_SelfExclusion(t *testing.T) {
	root := t.TempDir()

	// Archives are written into the root itself: prior archives and the
	// in-progress one must not become entries.
	writeTree(t, root, map[string]string{
		"data.txt": "payload",
	})
	prior := Name(time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local))
	require.NoError(t, os.WriteFile(filepath.Join(root, prior), []byte("old archive"), 0o644))

	b := NewBuilder()
	arc, err := b.Build(root, root)
	require.NoError(t, err)

	names := entryNames(t, arc.Path)
	assert.Equal(t, []string{"data.txt"}, names)
	assert.NotContains(t, names, filepath.Base(arc.Path))
}

func TestBuild_RoundTrip(t *testing.T) {
	root := t.TempDir()
	dest := t.TempDir()

	files := map[string]string{
		"a.txt":           "alpha",
		"dir/b.txt":       "beta",
		"dir/sub/c.bytes": string([]byte{0x00, 0xff, 0x10, 0x20}),
	}
	writeTree(t, root, files)

	arc, err := NewBuilder().Build(root, dest)
	require.NoError(t, err)

	for rel, content := range files {
		assert.Equal(t, content, readEntry(t, arc.Path, rel), "entry %s", rel)
	}
}

func TestBuild_CreatesDestDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})

	dest := filepath.Join(t.TempDir(), "nested", "backups")
	arc, err := NewBuilder().Build(root, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, filepath.Dir(arc.Path))
}

func TestBuild_SameSecondCollision(t *testing.T) {
	root := t.TempDir()
	dest := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})

	fixed := time.Date(2026, 8, 23, 12, 0, 0, 0, time.Local)
	b := NewBuilder(WithClock(func() time.Time { return fixed }))

	first, err := b.Build(root, dest)
	require.NoError(t, err)

	_, err = b.Build(root, dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArchiveExists))

	// The completed archive is untouched.
	info, err := os.Stat(first.Path)
	require.NoError(t, err)
	assert.Equal(t, first.SizeBytes, info.Size())
}

func TestBuild_FailureRemovesPartialArchive(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	dest := t.TempDir()

	_, err := NewBuilder().Build(root, dest)
	require.Error(t, err)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed build must not leave a partial archive")
}

func TestName_LexicalOrderIsChronological(t *testing.T) {
	earlier := Name(time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local))
	later := Name(time.Date(2026, 1, 2, 3, 4, 6, 0, time.Local))
	assert.Less(t, earlier, later)
}

func TestMatchesName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"dirvault_backup_20260823_120000.zip", true},
		{"dirvault_backup_whatever.zip", true},
		{"dirvault_backup_20260823_120000.zip.part", false},
		{"other_backup_20260823_120000.zip", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesName(tt.name), "MatchesName(%q)", tt.name)
	}
}

func TestParseNameTime(t *testing.T) {
	stamp := time.Date(2026, 8, 23, 15, 30, 45, 0, time.Local)
	got, ok := ParseNameTime(Name(stamp))
	require.True(t, ok)
	assert.True(t, got.Equal(stamp))

	_, ok = ParseNameTime("dirvault_backup_garbage.zip")
	assert.False(t, ok)

	_, ok = ParseNameTime("unrelated.zip")
	assert.False(t, ok)
}
