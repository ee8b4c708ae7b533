package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"customs/internal/core/application/usecases/commands"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/core/domain/services"
	"customs/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const retryRequestedBy = "system:retry-dispatch"

// RetryCandidateReader lists failed attempts eligible for automatic retry.
// Satisfied by the ledger repository.
type RetryCandidateReader interface {
	GetRetryCandidates(ctx context.Context) ([]*transaction.Transaction, error)
}

// RetryDispatchJob resubmits auto-retriable failed attempts once their
// backoff delay has elapsed. It goes through RetryCommandHandler on purpose:
// scheduled retries must obey the same locking, dependency and policy rules
// as operator-requested ones.
type RetryDispatchJob struct {
	handler    commands.RetryCommandHandler
	candidates RetryCandidateReader
	policy     *services.RetryPolicy
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewRetryDispatchJob creates a job scanning for due retries every 15 seconds.
func NewRetryDispatchJob(
	handler commands.RetryCommandHandler,
	candidates RetryCandidateReader,
	policy *services.RetryPolicy,
	logger *slog.Logger,
) *RetryDispatchJob {
	return &RetryDispatchJob{
		handler:    handler,
		candidates: candidates,
		policy:     policy,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "retry_dispatch_job"),
	}
}

// Start begins the retry dispatch job.
func (j *RetryDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Retry dispatch job started (running every 15 seconds)")
	return nil
}

// Stop stops the retry dispatch job.
func (j *RetryDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Retry dispatch job stopped")
}

func (j *RetryDispatchJob) run(ctx context.Context) {
	candidates, err := j.candidates.GetRetryCandidates(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Retry candidate scan failed", "error", err)
		return
	}

	now := time.Now().UTC()
	for _, candidate := range candidates {
		if !j.due(candidate, now) {
			continue
		}

		command, err := commands.NewRetryCommand(candidate.ID(), retryRequestedBy)
		if err != nil {
			j.logger.ErrorContext(ctx, "Retry command construction failed",
				"transaction_id", candidate.ID().String(), "error", err)
			continue
		}

		retryID, err := j.handler.Handle(ctx, command)
		switch {
		case err == nil:
			j.logger.InfoContext(ctx, "Retry dispatched",
				"transaction_id", candidate.ID().String(),
				"retry_transaction_id", retryID.String(),
			)
		case errors.Is(err, errs.ErrConcurrencyConflict),
			errors.Is(err, errs.ErrRetryNotPermitted):
			// Someone else got there first, or the policy verdict changed
			// since the scan. Expected; the next sweep re-evaluates.
		default:
			j.logger.ErrorContext(ctx, "Retry dispatch failed",
				"transaction_id", candidate.ID().String(), "error", err)
		}
	}
}

// due reports whether the candidate's backoff delay has elapsed.
func (j *RetryDispatchJob) due(candidate *transaction.Transaction, now time.Time) bool {
	action, err := j.policy.Evaluate(candidate)
	if err != nil || action.Kind != services.ActionRetryAfter {
		return false
	}

	respondedAt := candidate.RespondedAt()
	if respondedAt == nil {
		return true
	}
	return !now.Before(respondedAt.Add(action.Delay))
}
