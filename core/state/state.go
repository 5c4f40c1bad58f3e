// Package state holds the derived account-balance view of the chain: a
// mapping from account to balance, plus a per-account history of signed
// deltas. It is adapted from erigon's point-in-time state reader: the same
// read/apply split, but here apply is total (no pruning, no backing store)
// because the whole chain lives in memory for the life of the process.
package state

import (
	"math/big"

	"github.com/latticeledger/ledgerd/core/types"
)

const (
	// GenesisAccount is seeded with GenesisSeedAmount the moment block 1 is
	// applied.
	GenesisAccount    = "A"
	GenesisSeedAmount = 10_000
)

// State is not safe for concurrent use by itself; the engine package
// guards every call with a single mutex, the same "one writer at a time"
// discipline erigon's history reader relies on its caller for.
type State struct {
	balances map[string]types.Amount
	history  map[string][]types.HistoryEntry
}

// New returns an empty state with no accounts and no history.
func New() *State {
	return &State{
		balances: make(map[string]types.Amount),
		history:  make(map[string][]types.HistoryEntry),
	}
}

// Validate returns the subsequence of txns, in order, that can be applied
// against the current balances. It never mutates the real state: it works
// against a throwaway copy of the balance map, mirroring the staged
// read-then-apply style used throughout erigon's state layer.
func (s *State) Validate(txns []types.Transaction) []types.Transaction {
	working := make(map[string]types.Amount, len(s.balances))
	for account, balance := range s.balances {
		working[account] = balance
	}

	result := make([]types.Transaction, 0, len(txns))
	for _, t := range txns {
		senderBalance, ok := working[t.Sender]
		if !ok {
			continue
		}
		if _, ok := working[t.Recipient]; !ok {
			working[t.Recipient] = types.ZeroAmount()
		}
		if senderBalance.LessThan(t.Amount) {
			continue
		}
		debited, underflow := senderBalance.Sub(t.Amount)
		if underflow {
			continue
		}
		working[t.Sender] = debited
		working[t.Recipient] = working[t.Recipient].Add(t.Amount)
		result = append(result, t)
	}
	return result
}

// Apply commits block's transactions to the real balances and appends one
// history entry per touched account. The caller must have already
// validated the block (see consensus/validator); Apply itself performs no
// rejection, only bookkeeping.
//
// Block 1 is special-cased: before its (always empty) transaction list is
// applied, GenesisAccount is seeded with GenesisSeedAmount, and that seeding
// itself produces a +GenesisSeedAmount history entry for GenesisAccount.
func (s *State) Apply(block types.Block) {
	deltas := make(map[string]*big.Int)
	touch := func(account string) *big.Int {
		d, ok := deltas[account]
		if !ok {
			d = new(big.Int)
			deltas[account] = d
		}
		return d
	}

	if block.IsGenesis() {
		seed := types.NewAmount(GenesisSeedAmount)
		s.balances[GenesisAccount] = seed
		touch(GenesisAccount).Add(touch(GenesisAccount), seed.BigInt())
	}

	for _, t := range block.Transactions {
		debited, _ := s.balances[t.Sender].Sub(t.Amount)
		s.balances[t.Sender] = debited

		if _, ok := s.balances[t.Recipient]; !ok {
			s.balances[t.Recipient] = types.ZeroAmount()
		}
		s.balances[t.Recipient] = s.balances[t.Recipient].Add(t.Amount)

		touch(t.Sender).Sub(touch(t.Sender), t.Amount.BigInt())
		touch(t.Recipient).Add(touch(t.Recipient), t.Amount.BigInt())
	}

	for account, delta := range deltas {
		s.history[account] = append(s.history[account], types.HistoryEntry{
			BlockNumber: block.Number,
			Delta:       delta,
		})
	}
}

// History returns a defensive copy of account's recorded deltas, or an
// empty slice if the account was never touched.
func (s *State) History(account string) []types.HistoryEntry {
	entries := s.history[account]
	out := make([]types.HistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// Balance returns account's current balance and whether the account exists.
func (s *State) Balance(account string) (types.Amount, bool) {
	b, ok := s.balances[account]
	return b, ok
}

// Snapshot returns a defensive copy of every account balance, used by the
// dump query surface.
func (s *State) Snapshot() map[string]types.Amount {
	out := make(map[string]types.Amount, len(s.balances))
	for account, balance := range s.balances {
		out[account] = balance
	}
	return out
}
