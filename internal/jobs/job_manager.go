package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"customs/internal/core/application/usecases/commands"
	"customs/internal/core/domain/services"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	retryDispatchJob *RetryDispatchJob
	statusExpiryJob  *StatusExpiryJob
}

// NewJobManager creates a job manager with all required jobs wired.
func NewJobManager(
	retryHandler commands.RetryCommandHandler,
	retryCandidates RetryCandidateReader,
	policy *services.RetryPolicy,
	expireHandler commands.ExpireStaleStatusesCommandHandler,
	stalenessWindow time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		retryDispatchJob: NewRetryDispatchJob(retryHandler, retryCandidates, policy, logger),
		statusExpiryJob:  NewStatusExpiryJob(expireHandler, stalenessWindow, logger),
	}
}

// StartAll starts all scheduled jobs. Returns an error if any job fails to
// start, stopping the ones already running.
func (jm *JobManager) StartAll() error {
	if err := jm.retryDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start retry dispatch job: %w", err)
	}

	if err := jm.statusExpiryJob.Start(); err != nil {
		jm.retryDispatchJob.Stop()
		return fmt.Errorf("failed to start status expiry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.statusExpiryJob.Stop()
	jm.retryDispatchJob.Stop()
}
