// Package service composes archive building, retention, and scheduling
// into a single facade.
//
// A [Service] is constructed from configuration; root and archive
// directories are resolved once at construction. [Service.RunOnce]
// performs an immediate backup (build, then prune), [Service.Start]
// launches the cron-driven scheduler loop in a background goroutine, and
// [Service.Stop] cancels it and waits for it to exit. [Service.Status]
// lists existing archives newest-first.
//
// Builds are synchronous and IO-bound; callers on latency-sensitive
// paths should invoke RunOnce from their own goroutine. The scheduler
// already runs on its own goroutine.
//
// A manual RunOnce may overlap a scheduled run. This is deliberate:
// archives are uniquely timestamped so the worst case is a retention
// undercount, never a corrupted archive.
package service
