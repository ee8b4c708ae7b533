package commands

import (
	"context"

	"golang.org/x/sync/errgroup"

	"customs/internal/core/domain/model/kernel"
)

// DefaultBatchConcurrency bounds how many voyages of one batch are in flight
// at the same time.
const DefaultBatchConcurrency = 4

// VoyageResult is the outcome of one voyage inside a batch.
type VoyageResult struct {
	VoyageID      kernel.UUID
	TransactionID kernel.UUID
	Err           error
}

// BatchResult aggregates the per-voyage outcomes of one batch.
type BatchResult struct {
	Results   []VoyageResult
	Succeeded int
	Failed    int
}

// BatchSubmitCommandHandler fans one declaration type out over several
// voyages with bounded concurrency. Every voyage gets its own submission
// pipeline run; the batch never stops early because one voyage failed, but
// canceling the context stops voyages that have not started yet.
type BatchSubmitCommandHandler struct {
	submitHandler SubmitCommandHandler
	concurrency   int
}

// NewBatchSubmitCommandHandler creates a handler for batch submissions.
// concurrency <= 0 falls back to DefaultBatchConcurrency.
func NewBatchSubmitCommandHandler(submitHandler SubmitCommandHandler, concurrency int) BatchSubmitCommandHandler {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return BatchSubmitCommandHandler{
		submitHandler: submitHandler,
		concurrency:   concurrency,
	}
}

// Handle processes the batch and reports every voyage's outcome in input
// order.
func (h BatchSubmitCommandHandler) Handle(ctx context.Context, command BatchSubmitCommand) (BatchResult, error) {
	if err := command.Validate(); err != nil {
		return BatchResult{}, err
	}

	voyageIDs := command.VoyageIDs()
	results := make([]VoyageResult, len(voyageIDs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(h.concurrency)

	for i, voyageID := range voyageIDs {
		results[i] = VoyageResult{VoyageID: voyageID}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			submitCommand, err := command.SubmitCommandFor(voyageID)
			if err != nil {
				results[i].Err = err
				return nil
			}

			txnID, err := h.submitHandler.Handle(groupCtx, submitCommand)
			results[i].TransactionID = txnID
			results[i].Err = err
			return nil
		})
	}

	// Workers always return nil; failures stay in their slot.
	_ = group.Wait()

	batch := BatchResult{Results: results}
	for _, result := range results {
		if result.Err == nil {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	return batch, nil
}
