package inventory

import (
	"sort"

	"gudang/internal/core/id"
)

// batchRef pairs a batch with its owning record for FIFO walks and lock
// computation.
type batchRef struct {
	RecordID  id.ID
	RecordSeq int64
	Batch     BatchLine
}

// BatchesForKey returns the batches for a stock key in receipt order:
// ascending by owning record Seq, then by line position within the
// record. Seq assignment order is authoritative even when two records
// share a date; this ordering is the FIFO axis.
func BatchesForKey(records []ReceivingRecord, key StockKey) []batchRef {
	var refs []batchRef
	for i := range records {
		rec := &records[i]
		for _, line := range rec.Lines {
			if line.StockKey == key {
				refs = append(refs, batchRef{
					RecordID:  rec.ID,
					RecordSeq: rec.Seq,
					Batch:     line,
				})
			}
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].RecordSeq < refs[j].RecordSeq
	})
	return refs
}

// StockKeys returns every stock key appearing anywhere in the history,
// in no particular order.
func StockKeys(records []ReceivingRecord) map[StockKey]struct{} {
	keys := make(map[StockKey]struct{})
	for i := range records {
		for _, line := range records[i].Lines {
			keys[line.StockKey] = struct{}{}
		}
	}
	return keys
}
