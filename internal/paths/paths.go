package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// markerDirs are subdirectory names that identify an application
// installation root. The first ancestor of the executable containing
// any of these is treated as the root.
var markerDirs = []string{"data", "core", "plugins"}

// ErrInvalidPath indicates a configured path is malformed. Raised by
// configuration validation; no path here is ever checked for existence.
var ErrInvalidPath = errors.New("invalid path")

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0755) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveRoot discovers the installation root directory to archive.
//
// The search starts at the directory containing the running executable and
// probes a small set of ancestors for marker subdirectories (data, core,
// plugins). The first ancestor containing any marker wins. If none match,
// fallback (when non-empty) is returned, otherwise the current working
// directory. This is best-effort discovery; it never fails.
func ResolveRoot(fallback string) string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Dir(exe)
		candidates := []string{
			filepath.Dir(dir),               // parent of the executable's directory
			filepath.Dir(filepath.Dir(dir)), // grandparent
		}
		if root, ok := findRoot(candidates); ok {
			return root
		}
	}

	if fallback != "" {
		return fallback
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// findRoot returns the first candidate containing at least one marker
// subdirectory.
func findRoot(candidates []string) (string, bool) {
	for _, c := range candidates {
		for _, marker := range markerDirs {
			if info, err := os.Stat(filepath.Join(c, marker)); err == nil && info.IsDir() {
				return c, true
			}
		}
	}
	return "", false
}

// ResolveArchiveDir determines where archives are stored.
//
// An absolute configured path is used verbatim. A relative or empty path
// defaults to the parent of the root directory. The directory is not
// created here; creation is deferred to archive-write time.
func ResolveArchiveDir(configured, root string) string {
	if configured != "" && filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Dir(root)
}

// ConfigHome returns the XDG config home directory, the search location
// for config.yaml after the working directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}
