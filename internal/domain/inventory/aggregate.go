package inventory

import "gudang/internal/core/id"

// Remaining derives the remaining quantity for a stock key from the full
// history: Σ batch original quantities − Σ allocation quantities. It is a
// pure fold recomputed on every call; no incrementally maintained counter
// exists anywhere, so deleting a transaction restores exactly the stock
// it consumed, with no drift.
//
// When cutoff is non-nil, only batches and allocations whose owning
// record/transaction Seq is ≤ *cutoff participate, as if nothing after
// the cutoff ever existed (as-of reporting).
func Remaining(records []ReceivingRecord, txs []OutgoingTransaction, key StockKey, cutoff *int64) int64 {
	var total int64

	for i := range records {
		rec := &records[i]
		if cutoff != nil && rec.Seq > *cutoff {
			continue
		}
		for _, line := range rec.Lines {
			if line.StockKey == key {
				total += line.Quantity
			}
		}
	}

	for i := range txs {
		tx := &txs[i]
		if cutoff != nil && tx.Seq > *cutoff {
			continue
		}
		for _, line := range tx.Lines {
			if line.StockKey == key {
				total -= line.Quantity
			}
		}
	}

	return total
}

// consumedPerBatch sums allocation quantities per source batch across
// all transactions. The allocator subtracts these from original batch
// quantities to get per-batch remaining capacity.
func consumedPerBatch(txs []OutgoingTransaction) map[id.ID]int64 {
	consumed := make(map[id.ID]int64)
	for i := range txs {
		for _, line := range txs[i].Lines {
			consumed[line.SourceBatchID] += line.Quantity
		}
	}
	return consumed
}
