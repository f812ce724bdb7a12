package inventory

import "gudang/internal/core/id"

// IsLocked reports whether any allocation across all outgoing
// transactions references a batch owned by the given receiving record.
// Pure query over the history, recomputed on demand; callers must
// re-check at the moment of mutation rather than trust a previously
// displayed answer.
func IsLocked(recordID id.ID, txs []OutgoingTransaction) bool {
	for i := range txs {
		for _, line := range txs[i].Lines {
			if line.SourceRecordID == recordID {
				return true
			}
		}
	}
	return false
}

// ReferencedRecords returns the set of receiving record ids that have at
// least one allocation against them. Used by list views to flag locked
// notas without running IsLocked per row.
func ReferencedRecords(txs []OutgoingTransaction) map[id.ID]struct{} {
	refs := make(map[id.ID]struct{})
	for i := range txs {
		for _, line := range txs[i].Lines {
			refs[line.SourceRecordID] = struct{}{}
		}
	}
	return refs
}
