package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/dirvault/dirvault/internal/archive"
	"github.com/dirvault/dirvault/internal/config"
	"github.com/dirvault/dirvault/internal/logging"
)

// setupBackupTest points the loaded config at a populated temp root and
// an empty temp archive directory, restoring the previous config after
// the test.
func setupBackupTest(t *testing.T) (root, dest string) {
	t.Helper()

	root = t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "data.bin"), []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	dest = t.TempDir()

	orig := loadedConfig
	t.Cleanup(func() { loadedConfig = orig })
	loadedConfig = &config.Config{
		RootPath:        root,
		BackupPath:      dest,
		MaxBackups:      config.DefaultMaxBackups,
		CronExpression:  config.DefaultCronExpression,
		ExcludeDirs:     config.DefaultExcludeDirs,
		ExcludeSuffixes: config.DefaultExcludeSuffixes,
	}

	return root, dest
}

// newTestCmd returns a command whose context carries a test logger.
func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(logging.NewContext(context.Background(), logging.ForTest(t)))
	return cmd
}

// seedArchives writes n fake archives with distinct embedded timestamps
// and matching mtimes, oldest first.
func seedArchives(t *testing.T, dest string, n int) []string {
	t.Helper()
	base := time.Now().Add(-time.Duration(n) * time.Hour)
	paths := make([]string, n)
	for i := range n {
		stamp := base.Add(time.Duration(i) * time.Hour)
		p := filepath.Join(dest, archive.Name(stamp))
		if err := os.WriteFile(p, []byte("zip"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, stamp, stamp); err != nil {
			t.Fatal(err)
		}
		paths[i] = p
	}
	return paths
}

func TestBackupCreate(t *testing.T) {
	_, dest := setupBackupTest(t)

	var buf bytes.Buffer
	if err := runBackupCreateWithWriter(newTestCmd(t), &buf); err != nil {
		t.Fatalf("runBackupCreate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "created "+archive.NamePrefix) {
		t.Errorf("output missing creation line: %q", buf.String())
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	var archives int
	for _, e := range entries {
		if archive.MatchesName(e.Name()) {
			archives++
		}
	}
	if archives != 1 {
		t.Errorf("expected 1 archive in dest, found %d", archives)
	}
}

func TestBackupList_Tabular(t *testing.T) {
	_, dest := setupBackupTest(t)
	seedArchives(t, dest, 7)

	origJSON := backupListJSON
	defer func() { backupListJSON = origJSON }()
	backupListJSON = false

	var buf bytes.Buffer
	if err := runBackupListWithWriter(newTestCmd(t), &buf); err != nil {
		t.Fatalf("runBackupList failed: %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, archive.NamePrefix); got != listLimit {
		t.Errorf("expected %d archive rows, got %d:\n%s", listLimit, got, out)
	}
	if !strings.Contains(out, "...and 2 more") {
		t.Errorf("output missing remainder line:\n%s", out)
	}
}

func TestBackupList_Empty(t *testing.T) {
	setupBackupTest(t)

	origJSON := backupListJSON
	defer func() { backupListJSON = origJSON }()
	backupListJSON = false

	var buf bytes.Buffer
	if err := runBackupListWithWriter(newTestCmd(t), &buf); err != nil {
		t.Fatalf("runBackupList failed: %v", err)
	}

	if !strings.Contains(buf.String(), "(no archives)") {
		t.Errorf("output missing empty notice:\n%s", buf.String())
	}
}

func TestBackupList_JSON(t *testing.T) {
	_, dest := setupBackupTest(t)
	seedArchives(t, dest, 7)

	origJSON := backupListJSON
	defer func() { backupListJSON = origJSON }()
	backupListJSON = true

	var buf bytes.Buffer
	if err := runBackupListWithWriter(newTestCmd(t), &buf); err != nil {
		t.Fatalf("runBackupList failed: %v", err)
	}

	var out archiveListOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 7 {
		t.Errorf("Count = %d, want 7", out.Count)
	}
	if len(out.Archives) != 7 {
		t.Errorf("len(Archives) = %d, JSON output must not be truncated", len(out.Archives))
	}
	if out.Directory != dest {
		t.Errorf("Directory = %q, want %q", out.Directory, dest)
	}
}

func TestBackupPrune(t *testing.T) {
	_, dest := setupBackupTest(t)
	seeded := seedArchives(t, dest, 4)

	origKeep := pruneKeep
	defer func() { pruneKeep = origKeep }()
	pruneKeep = 2

	var buf bytes.Buffer
	if err := runBackupPruneWithWriter(newTestCmd(t), &buf); err != nil {
		t.Fatalf("runBackupPrune failed: %v", err)
	}

	// Oldest two go, newest two stay.
	for _, p := range seeded[:2] {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should have been deleted", filepath.Base(p))
		}
	}
	for _, p := range seeded[2:] {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should have been kept: %v", filepath.Base(p), err)
		}
	}
	if !strings.Contains(buf.String(), "Deleted 2 archive(s)") {
		t.Errorf("output missing summary:\n%s", buf.String())
	}
}

func TestBackupPrune_Disabled(t *testing.T) {
	_, dest := setupBackupTest(t)
	seeded := seedArchives(t, dest, 3)
	loadedConfig.MaxBackups = 0

	origKeep := pruneKeep
	defer func() { pruneKeep = origKeep }()
	pruneKeep = 0

	var buf bytes.Buffer
	if err := runBackupPruneWithWriter(newTestCmd(t), &buf); err != nil {
		t.Fatalf("runBackupPrune failed: %v", err)
	}

	if !strings.Contains(buf.String(), "disabled") {
		t.Errorf("output should mention disabled retention:\n%s", buf.String())
	}
	for _, p := range seeded {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should not have been deleted: %v", filepath.Base(p), err)
		}
	}
}
