// Package schedule runs a job on a cron schedule in a single background
// loop.
//
// The loop computes the next occurrence of a five-field cron expression
// (via robfig/cron), sleeps until it is due, runs the job, and repeats.
// Three properties matter here:
//
//   - Waits are bounded: the loop sleeps in increments of at most
//     [DefaultPollInterval], so cancellation is observed within one
//     increment even when the schedule fires only every few days.
//   - Job errors are contained: a failed run is logged and counts as a
//     missed cycle; the loop keeps going.
//   - Schedule faults cool down: if the next occurrence cannot be
//     computed, the loop backs off for [DefaultCooldown] before retrying
//     rather than spinning.
//
// The next occurrence is always recomputed from the current time after a
// run completes, never incremented from the previous target, so late runs
// do not cause catch-up bursts.
package schedule
