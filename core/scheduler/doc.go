// Package scheduler drives the periodic polling jobs (donation ledger, active mission,
// linked profile refresh, member prepopulation).
//
// Each job gets its own goroutine and ticker. A run always finishes before the next tick
// is consumed, and every run holds a named lock (core/lock) so a manual Trigger from the
// HTTP API cannot overlap a scheduled run. Errors are logged and counted; they never
// stop the job.
//
// # Usage
//
//	s := scheduler.New(locker, cfg.Scheduler.RunTimeout, log)
//	s.Add(scheduler.Job{Name: "ledger", Interval: cfg.Scheduler.Ledger, Run: donationJob.Run})
//	s.Start(ctx)
//	defer s.Stop()
package scheduler
