package inventory

import (
	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
)

// validateRequest checks a proposed set of outgoing lines against the
// current history, atomically across the whole request: if any single
// line exceeds its remaining stock the entire request is rejected and
// nothing is written. Duplicate stock keys in one request are rejected
// outright: two lines for the same key would each validate against the
// same remaining snapshot and jointly overdraw it.
func validateRequest(records []ReceivingRecord, txs []OutgoingTransaction, lines []RequestLine) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	seen := make(map[StockKey]struct{}, len(lines))
	for i, line := range lines {
		if line.Name == "" || line.Unit == "" {
			return apperror.NewValidation("item name and unit are required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if _, dup := seen[line.StockKey]; dup {
			return apperror.NewValidation("duplicate item in request").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1).
				WithDetail("item", line.StockKey.String())
		}
		seen[line.StockKey] = struct{}{}

		available := Remaining(records, txs, line.StockKey, nil)
		if line.Quantity > available {
			return apperror.NewInsufficientStock(line.Name, line.Unit, line.Quantity, available)
		}
	}

	return nil
}

// allocate consumes the validated request against the batch ledger in
// receipt order and returns the candidate allocation set. For each line
// it walks the key's batches oldest-first, consuming
// min(batchRemaining, stillNeeded) from every batch with capacity and
// emitting one allocation per consumed batch, each carrying that batch's
// frozen price. A line spanning batch boundaries legally produces
// multiple splits.
//
// Validation already guaranteed sufficient aggregate stock, so the walk
// must drive stillNeeded to exactly zero; a shortfall here means the
// validator and allocator disagreed and is surfaced as
// ALLOCATION_CONSISTENCY, never clamped.
func allocate(records []ReceivingRecord, txs []OutgoingTransaction, lines []RequestLine) ([]AllocationLine, error) {
	consumed := consumedPerBatch(txs)
	allocations := make([]AllocationLine, 0, len(lines))

	for _, line := range lines {
		stillNeeded := line.Quantity

		for _, ref := range BatchesForKey(records, line.StockKey) {
			if stillNeeded == 0 {
				break
			}

			batchRemaining := ref.Batch.Quantity - consumed[ref.Batch.ID]
			if batchRemaining <= 0 {
				continue
			}

			take := batchRemaining
			if stillNeeded < take {
				take = stillNeeded
			}

			allocations = append(allocations, AllocationLine{
				ID:             id.New(),
				StockKey:       line.StockKey,
				Quantity:       take,
				UnitPrice:      ref.Batch.UnitPrice,
				SourceRecordID: ref.RecordID,
				SourceBatchID:  ref.Batch.ID,
			})

			// Count candidate consumption too, so no later line in this
			// request can overdraw a batch the request already drew from.
			consumed[ref.Batch.ID] += take
			stillNeeded -= take
		}

		if stillNeeded > 0 {
			return nil, apperror.NewAllocationConsistency(line.Name, line.Unit, stillNeeded)
		}
	}

	return allocations, nil
}
