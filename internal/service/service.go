package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dirvault/dirvault/internal/archive"
	"github.com/dirvault/dirvault/internal/config"
	"github.com/dirvault/dirvault/internal/paths"
	"github.com/dirvault/dirvault/internal/retention"
	"github.com/dirvault/dirvault/internal/schedule"
	"github.com/dirvault/dirvault/pkg/fileutil"
)

// StateFileName is the last-run snapshot written next to the archives.
// It deliberately does not match the archive naming convention, so
// retention never touches it and builds never include it.
const StateFileName = "dirvault_state.json"

// Result describes one backup attempt, scheduled or manual.
type Result struct {
	// Archive describes the produced file; nil when the attempt failed.
	Archive *archive.Archive

	// Pruned lists archives deleted by retention after a successful build.
	Pruned []string

	// Err is the failure, if any.
	Err error
}

// OK reports whether the attempt produced an archive.
func (r Result) OK() bool {
	return r.Err == nil
}

// State is the last successful run, persisted as JSON in the archive
// directory.
type State struct {
	FinishedAt  time.Time `json:"finished_at"`
	ArchivePath string    `json:"archive_path"`
	SizeBytes   int64     `json:"size_bytes"`
	FileCount   int       `json:"file_count"`
	Duration    string    `json:"duration"`
}

// Service composes the archive builder, retention policy, and scheduler
// behind a single facade for command handlers and the daemon.
type Service struct {
	root       string
	archiveDir string
	cronExpr   string
	builder    *archive.Builder
	policy     retention.Policy
	logger     *slog.Logger

	startOnce sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a Service from configuration. Root and archive directories
// are resolved once, here; the archive directory itself is created lazily
// at archive-write time.
func New(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	root := paths.ResolveRoot(cfg.RootPath)
	archiveDir := paths.ResolveArchiveDir(cfg.BackupPath, root)

	return &Service{
		root:       root,
		archiveDir: archiveDir,
		cronExpr:   cfg.CronExpression,
		builder: archive.NewBuilder(archive.WithExclusions(
			archive.NewExclusionSet(cfg.ExcludeDirs, cfg.ExcludeSuffixes),
		)),
		policy: retention.Policy{MaxKept: cfg.MaxBackups},
		logger: logger,
	}
}

// Root returns the resolved installation root being archived.
func (s *Service) Root() string {
	return s.root
}

// ArchiveDir returns the resolved archive destination directory.
func (s *Service) ArchiveDir() string {
	return s.archiveDir
}

// RunOnce performs a single backup: build the archive, then apply
// retention. It is independent of the scheduler and safe to call while
// the scheduler is waiting. There is deliberately no lock against a
// concurrently scheduled run: archives are uniquely timestamped so no
// overwrite can occur, but retention may briefly undercount files created
// by the other run.
func (s *Service) RunOnce(ctx context.Context) Result {
	start := time.Now()
	s.logger.Info("starting backup", "root", s.root, "dest", s.archiveDir)

	arc, err := s.builder.Build(s.root, s.archiveDir)
	if err != nil {
		s.logger.Error("backup failed", "error", err)
		return Result{Err: err}
	}

	s.logger.Info("backup complete",
		"archive", arc.Path,
		"size_bytes", arc.SizeBytes,
		"files", arc.FileCount,
		"elapsed", time.Since(start).Round(time.Millisecond))

	pruned, err := retention.Prune(s.archiveDir, s.policy, s.logger)
	if err != nil {
		// The archive itself succeeded; a retention listing failure is
		// logged but does not fail the result.
		s.logger.Warn("pruning old archives failed", "error", err)
	}

	s.writeState(arc, time.Since(start))

	return Result{Archive: arc, Pruned: pruned}
}

// writeState persists the last-run snapshot, best-effort.
func (s *Service) writeState(arc *archive.Archive, elapsed time.Duration) {
	state := State{
		FinishedAt:  time.Now(),
		ArchivePath: arc.Path,
		SizeBytes:   arc.SizeBytes,
		FileCount:   arc.FileCount,
		Duration:    elapsed.Round(time.Millisecond).String(),
	}
	path := filepath.Join(s.archiveDir, StateFileName)
	if err := fileutil.AtomicWriteJSON(path, state); err != nil {
		s.logger.Warn("writing state file failed", "path", path, "error", err)
	}
}

// LastRun reads the persisted last-run snapshot. Returns nil without
// error if no run has been recorded yet.
func (s *Service) LastRun() (*State, error) {
	data, err := fileutil.ReadFileWithLimit(filepath.Join(s.archiveDir, StateFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, "parsing state file")
	}
	return &state, nil
}

// Start launches the scheduler loop as a background goroutine. Calling
// Start more than once is a no-op.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel

		loop := schedule.NewLoop(s.cronExpr, func(ctx context.Context) error {
			return s.RunOnce(ctx).Err
		}, schedule.WithLogger(s.logger))

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			loop.Run(ctx)
		}()
	})
}

// Stop requests the scheduler loop to exit and waits for it. An in-flight
// run is allowed to finish. Stop is safe to call multiple times and is a
// no-op if Start was never called.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Status lists existing archives newest-first for reporting.
func (s *Service) Status() ([]retention.Info, error) {
	return retention.List(s.archiveDir)
}
