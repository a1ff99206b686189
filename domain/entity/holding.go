package entity

import (
	"sort"
	"strconv"
	"strings"
)

// TokenID is a numeric token identifier within a collection. Distribution
// collections mint small sequential ids, so uint64 covers the range.
type TokenID uint64

// HoldingSnapshot is the ephemeral view of tokens currently held by the
// distribution wallet for one collection, fetched from the external ledger.
// It is refreshed after every claim or send commit and on demand; it is
// never persisted.
type HoldingSnapshot struct {
	Collection string
	TokenIDs   []TokenID
}

// SelectForSend returns the batch for the next send: the limit
// lowest-numbered held tokens in ascending order. The choice depends only on
// the snapshot contents, not on the ledger's enumeration order, so repeated
// calls on the same snapshot pick the same batch.
func (h *HoldingSnapshot) SelectForSend(limit int) []TokenID {
	if limit <= 0 || len(h.TokenIDs) == 0 {
		return nil
	}
	sorted := make([]TokenID, len(h.TokenIDs))
	copy(sorted, h.TokenIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if limit > len(sorted) {
		limit = len(sorted)
	}
	return sorted[:limit]
}

// JoinTokenIDs serializes a batch the way the ledger records it.
func JoinTokenIDs(ids []TokenID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " | ")
}
