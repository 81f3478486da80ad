package archive

import "strings"

// ExclusionSet holds directory names and file suffixes to skip while
// archiving. It is configured once at construction and immutable after.
type ExclusionSet struct {
	dirs     map[string]struct{}
	suffixes []string
}

// NewExclusionSet builds an ExclusionSet from directory-name and
// file-suffix literals. Duplicates are collapsed; order of suffixes is
// preserved.
func NewExclusionSet(dirs, suffixes []string) *ExclusionSet {
	s := &ExclusionSet{
		dirs:     make(map[string]struct{}, len(dirs)),
		suffixes: make([]string, 0, len(suffixes)),
	}
	for _, d := range dirs {
		if d == "" {
			continue
		}
		s.dirs[d] = struct{}{}
	}
	seen := make(map[string]struct{}, len(suffixes))
	for _, suffix := range suffixes {
		if suffix == "" {
			continue
		}
		if _, ok := seen[suffix]; ok {
			continue
		}
		seen[suffix] = struct{}{}
		s.suffixes = append(s.suffixes, suffix)
	}
	return s
}

// ExcludesDir reports whether a directory with the given name should be
// pruned from the walk. Matching happens before descent so excluded
// subtrees are never opened.
func (s *ExclusionSet) ExcludesDir(name string) bool {
	_, ok := s.dirs[name]
	return ok
}

// ExcludesFile reports whether a file with the given name should be
// skipped, either because its suffix is excluded or because the name
// matches the archive naming convention (prior or in-progress backups).
func (s *ExclusionSet) ExcludesFile(name string) bool {
	if MatchesName(name) {
		return true
	}
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
