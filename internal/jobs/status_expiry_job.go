package jobs

import (
	"context"
	"log/slog"
	"time"

	"customs/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StatusExpiryJob expires status rows that sat untouched longer than the
// staleness window. Runs every minute; the expiry command re-checks every
// row against the state machine, so terminal rows are never touched.
type StatusExpiryJob struct {
	handler commands.ExpireStaleStatusesCommandHandler
	window  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStatusExpiryJob creates a job expiring rows older than window.
func NewStatusExpiryJob(
	handler commands.ExpireStaleStatusesCommandHandler,
	window time.Duration,
	logger *slog.Logger,
) *StatusExpiryJob {
	return &StatusExpiryJob{
		handler: handler,
		window:  window,
		cron:    cron.New(),
		logger:  logger.With("component", "status_expiry_job"),
	}
}

// Start begins the status expiry job.
func (j *StatusExpiryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		command, cmdErr := commands.NewExpireStaleStatusesCommand(j.window)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Expiry command construction failed", "error", cmdErr)
			return
		}

		expired, handleErr := j.handler.Handle(ctx, command)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Status expiry run failed", "error", handleErr)
			return
		}
		if expired > 0 {
			j.logger.InfoContext(ctx, "Stale statuses expired", "count", expired)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Status expiry job started (running every minute)")
	return nil
}

// Stop stops the status expiry job.
func (j *StatusExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Status expiry job stopped")
}
