// Package jobs provides the scheduled background tasks of the orchestrator.
//
// Two cron-based jobs run alongside the HTTP surface:
//
//  1. RetryDispatchJob - scans every 15 seconds for failed attempts whose
//     backoff delay has elapsed and resubmits them through the regular retry
//     pipeline, so automatic and operator-requested retries follow the exact
//     same rules.
//  2. StatusExpiryJob - runs every minute and expires status rows that sat
//     untouched longer than the configured staleness window.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(retryHandler, retryReader, policy, expireHandler, window, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Errors inside a run are logged and the schedule keeps going; a conflict or
// a policy refusal for one candidate never blocks the rest.
package jobs
