package services

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"customs/internal/core/domain/model/transaction"
	"customs/internal/pkg/errs"
)

// ActionKind classifies what may happen next after a failed submission.
type ActionKind int

const (
	// ActionRetryAfter means the attempt is safe to retry automatically
	// after the delay carried on the Action.
	ActionRetryAfter ActionKind = iota
	// ActionFixAndResubmit means the authority rejected the declaration and
	// an operator must correct the input before submitting again.
	ActionFixAndResubmit
	// ActionManualReview means the outcome could not be interpreted and an
	// operator must inspect the raw response before anything else happens.
	ActionManualReview
	// ActionGiveUp means the retry budget is exhausted.
	ActionGiveUp
)

// Action is the retry policy verdict for one failed transaction.
type Action struct {
	Kind  ActionKind
	Delay time.Duration
}

const (
	defaultInitialInterval = 30 * time.Second
	defaultMaxInterval     = 10 * time.Minute
)

// RetryPolicy decides whether a failed transaction may be retried
// automatically, needs corrected input, or needs operator review. Network
// level faults retry with an exponential delay until the attempt ceiling;
// authority rejections and malformed responses never retry automatically.
type RetryPolicy struct {
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewRetryPolicy creates a RetryPolicy with the default backoff schedule.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
	}
}

// Evaluate returns the verdict for a failed transaction. The transaction must
// be in the Error status; evaluating anything else is a programming error.
func (p *RetryPolicy) Evaluate(txn *transaction.Transaction) (Action, error) {
	if err := txn.Validate(); err != nil {
		return Action{}, err
	}
	if txn.Status() != transaction.Error {
		return Action{}, errs.NewValueIsInvalidError("transaction status")
	}

	info := txn.ErrorInfo()
	if info == nil {
		return Action{Kind: ActionManualReview}, nil
	}

	switch {
	case info.Fault.Retriable():
		if txn.RetryCount() >= txn.MaxRetries() {
			return Action{Kind: ActionGiveUp}, nil
		}
		return Action{
			Kind:  ActionRetryAfter,
			Delay: p.delayFor(txn.RetryCount() + 1),
		}, nil
	case info.Fault == transaction.FaultAuthorityRejected:
		return Action{Kind: ActionFixAndResubmit}, nil
	default:
		return Action{Kind: ActionManualReview}, nil
	}
}

// delayFor computes the delay before the given attempt (1-based). The
// schedule is deterministic so the dispatch job can derive due times from
// the ledger alone.
func (p *RetryPolicy) delayFor(attempt int) time.Duration {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initialInterval
	bo.MaxInterval = p.maxInterval
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	delay := bo.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = bo.NextBackOff()
	}
	return delay
}
