package schedule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultPollInterval bounds each sleep so a stop request is observed
	// within one increment even when the next run is days away.
	DefaultPollInterval = 60 * time.Second

	// DefaultCooldown is how long the loop backs off after failing to
	// compute the next occurrence, to avoid a tight error loop.
	DefaultCooldown = time.Hour
)

// cronParser accepts the standard five-field syntax (minute, hour,
// day-of-month, month, day-of-week).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextRun computes the next occurrence of the five-field cron expression
// strictly after from.
//
// An expression can parse yet never fire (for example "0 0 31 2 *",
// February 31st); robfig/cron signals that by returning the zero time
// from Next. That is reported as an error here so callers treat it as a
// schedule fault instead of an immediately-due occurrence.
func NextRun(expr string, from time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing cron expression %q", expr)
	}
	next := sched.Next(from)
	if next.IsZero() {
		return time.Time{}, errors.Newf("cron expression %q never fires", expr)
	}
	return next, nil
}

// Job is the work the loop triggers on schedule. Errors are logged by the
// loop and treated as a missed cycle, never as a reason to exit.
type Job func(ctx context.Context) error

// Loop triggers a Job according to a cron expression until its context is
// cancelled. After each run the next occurrence is recomputed from the
// current time, so a slow run shifts the schedule forward instead of
// triggering a catch-up burst.
type Loop struct {
	expr     string
	job      Job
	logger   *slog.Logger
	poll     time.Duration
	cooldown time.Duration
	now      func() time.Time
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPollInterval overrides the bounded-wait increment.
func WithPollInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.poll = d
		}
	}
}

// WithCooldown overrides the back-off after a schedule computation fault.
func WithCooldown(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.cooldown = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoop creates a Loop for the given cron expression and job.
func NewLoop(expr string, job Job, opts ...Option) *Loop {
	l := &Loop{
		expr:     expr,
		job:      job,
		logger:   slog.Default(),
		poll:     DefaultPollInterval,
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run blocks, triggering the job at each scheduled occurrence, until ctx
// is cancelled. The job never runs concurrently with itself from this
// loop; one run completes (or fails) before the next wait begins.
//
// A job error is logged and treated as a single missed cycle. A failure
// to compute the next occurrence (malformed expression, clock anomaly)
// backs off for the cooldown interval and retries; it never terminates
// the loop.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("backup scheduler started", "cron", l.expr)
	defer l.logger.Info("backup scheduler stopped")

	for {
		next, err := NextRun(l.expr, l.now())
		if err != nil {
			l.logger.Error("computing next backup time", "cron", l.expr, "error", err,
				"retry_in", l.cooldown)
			if !l.wait(ctx, l.cooldown) {
				return
			}
			continue
		}

		l.logger.Info("next scheduled backup", "at", next.Format(time.DateTime))
		if !l.waitUntil(ctx, next) {
			return
		}

		if err := l.job(ctx); err != nil {
			l.logger.Error("scheduled backup failed", "error", err)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// waitUntil sleeps until the deadline, in increments of at most the poll
// interval. Returns false if ctx was cancelled before the deadline.
func (l *Loop) waitUntil(ctx context.Context, deadline time.Time) bool {
	for {
		remaining := deadline.Sub(l.now())
		if remaining <= 0 {
			return ctx.Err() == nil
		}
		if remaining > l.poll {
			remaining = l.poll
		}
		if !l.wait(ctx, remaining) {
			return false
		}
	}
}

// wait sleeps for d or until ctx is cancelled, whichever comes first.
// Returns false on cancellation.
func (l *Loop) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
