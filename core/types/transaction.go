package types

import (
	"fmt"
	"sort"
)

// Transaction is an unsigned, nonce-free transfer between two accounts.
// Equality and ordering are structural over all three fields.
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    Amount `json:"amount"`
}

// String renders the transaction in the canonical form consumed by the
// block hash preimage: T(sender -> recipient: amount).
func (t Transaction) String() string {
	return fmt.Sprintf("T(%s -> %s: %s)", t.Sender, t.Recipient, t.Amount.String())
}

// Equal reports structural equality over (sender, recipient, amount).
func (t Transaction) Equal(o Transaction) bool {
	return t.Sender == o.Sender && t.Recipient == o.Recipient && t.Amount.Cmp(o.Amount) == 0
}

// Less implements the canonical total order: lexicographic on
// (sender, recipient, amount). It is used to sort the mempool before a
// miner snapshots it for inclusion.
func Less(a, b Transaction) bool {
	if a.Sender != b.Sender {
		return a.Sender < b.Sender
	}
	if a.Recipient != b.Recipient {
		return a.Recipient < b.Recipient
	}
	return a.Amount.LessThan(b.Amount)
}

// SortTransactions returns a new, canonically ordered copy of txns. The
// input slice is left untouched so callers holding a mempool snapshot can't
// have it mutated out from under them. The sort is stable: a transaction
// submitted twice survives as two entries in their original relative order.
func SortTransactions(txns []Transaction) []Transaction {
	sorted := make([]Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })
	return sorted
}
