package jobs

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultStaleOrderSchedule runs the monitor every five minutes.
const DefaultStaleOrderSchedule = "0 */5 * * * *"

// StaleOrderMonitorJob periodically counts orders that have been waiting longer than maxAge.
// The count is published as a gauge and logged when non-zero.
type StaleOrderMonitorJob struct {
	handler  queries.CountStaleOrdersQueryHandler
	query    queries.CountStaleOrdersQuery
	schedule string
	timeout  time.Duration
	metrics  *metrics.Metrics
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewStaleOrderMonitorJob creates the job. schedule is a cron expression with seconds.
func NewStaleOrderMonitorJob(
	handler queries.CountStaleOrdersQueryHandler,
	maxAge time.Duration,
	schedule string,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*StaleOrderMonitorJob, error) {
	query, err := queries.NewCountStaleOrdersQuery(maxAge)
	if err != nil {
		return nil, err
	}
	if schedule == "" {
		schedule = DefaultStaleOrderSchedule
	}
	return &StaleOrderMonitorJob{
		handler:  handler,
		query:    query,
		schedule: schedule,
		timeout:  30 * time.Second,
		metrics:  m,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "stale_order_monitor_job"),
	}, nil
}

// Start schedules the job.
func (j *StaleOrderMonitorJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order monitor started", "schedule", j.schedule, "maxAge", j.query.MaxAge())
	return nil
}

// Run performs one check.
func (j *StaleOrderMonitorJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	count, err := j.handler.Handle(ctx, j.query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order monitor failed", "error", err)
		return
	}

	j.metrics.SetStaleOrders(count)
	if count > 0 {
		j.logger.WarnContext(ctx, "Orders waiting longer than expected", "count", count, "maxAge", j.query.MaxAge())
	}
}

// Stop stops the scheduler and waits for a running check to finish.
func (j *StaleOrderMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stale order monitor stopped")
}
