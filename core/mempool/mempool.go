// Package mempool holds transactions submitted by clients that have not yet
// been included in a block. It keeps submission order for FIFO bookkeeping
// and exposes a canonical, stably-sorted view for the miner to consume.
package mempool

import (
	"github.com/latticeledger/ledgerd/core/types"
)

// Pool is not safe for concurrent use by itself; like core/state, callers
// are expected to serialize access (the engine package does this with a
// single mutex shared across pool, state and chain).
type Pool struct {
	pending []types.Transaction
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// Add appends t to the pool in submission order. Duplicate transactions
// (identical sender, recipient and amount) are allowed; the canonical sort
// is stable so duplicates submitted together stay in submission order
// relative to one another.
func (p *Pool) Add(t types.Transaction) {
	p.pending = append(p.pending, t)
}

// Len reports the number of pending transactions.
func (p *Pool) Len() int {
	return len(p.pending)
}

// Snapshot returns the pending transactions in canonical order: sorted by
// sender, then recipient, then amount, per the mempool ordering every miner
// in the cluster must apply identically before building a candidate block.
func (p *Pool) Snapshot() []types.Transaction {
	return types.SortTransactions(p.pending)
}

// Remove deletes every transaction in included from the pool. Matching is
// by value (sender, recipient, amount): the first pending occurrence of
// each included transaction is dropped, so a duplicate left uncommitted
// remains queued for the next block.
func (p *Pool) Remove(included []types.Transaction) {
	if len(included) == 0 {
		return
	}
	remaining := make([]types.Transaction, 0, len(p.pending))
	used := make([]bool, len(included))
	for _, t := range p.pending {
		matched := false
		for i, inc := range included {
			if !used[i] && t.Equal(inc) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			remaining = append(remaining, t)
		}
	}
	p.pending = remaining
}
