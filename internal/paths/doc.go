// Package paths resolves the directories dirvault operates on.
//
// Two resolutions matter: the installation root that gets archived, and
// the directory archives are written to.
//
// # Root Discovery
//
// [ResolveRoot] probes ancestors of the running executable for marker
// subdirectories (data, core, plugins) that identify an application
// installation. Discovery is best-effort with an explicit fallback chain:
// first matching ancestor, then the configured root_path, then the
// current working directory. It never fails outright.
//
// # Archive Directory
//
// [ResolveArchiveDir] uses an absolute backup_path verbatim and otherwise
// defaults to the parent of the root directory, so archives land next to
// the installation rather than inside it. The directory is created lazily
// at archive-write time, not at resolution time.
//
// The package also exposes the XDG config home (via adrg/xdg) used as
// the config file search location.
package paths
