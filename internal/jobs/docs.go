// Package jobs provides scheduled background tasks for the ordering service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with seconds)
// and are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(staleOrderMonitorJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// StaleOrderMonitorJob counts PENDING and CONFIRMED orders placed longer ago than the
// configured age, publishes the count as the ordering_stale_orders gauge and logs a
// warning when it is not zero.
package jobs
