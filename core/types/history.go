package types

import (
	"math/big"

	"github.com/goccy/go-json"
)

// HistoryEntry is one line of an account's audit trail: the block in which
// the account's balance changed, and the signed delta applied by that
// block. The delta, not the post-block balance, is the stored convention
// (see the /history endpoint).
type HistoryEntry struct {
	BlockNumber uint64
	Delta       *big.Int
}

// MarshalJSON renders the entry as the two-element tuple the HTTP API
// returns: [block_number, delta].
func (h HistoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{h.BlockNumber, h.Delta})
}
