package types

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenesisBlockHash(t *testing.T) {
	b := NewGenesisBlock(5000)
	require.Equal(t, uint64(1), b.Number)
	require.Equal(t, GenesisPreviousHash, b.PreviousHash)
	require.Empty(t, b.Transactions)

	preimage := "1" + "[]" + GenesisPreviousHash + "5000"
	sum := sha256.Sum256([]byte(preimage))
	require.Equal(t, hex.EncodeToString(sum[:]), b.Hash)
}

func TestBlockHashChangesWithTransactionOrder(t *testing.T) {
	a := tx("A", "B", 100)
	c := tx("A", "C", 50)

	b1 := NewBlock(2, []Transaction{a, c}, "deadbeef", 5001)
	b2 := NewBlock(2, []Transaction{c, a}, "deadbeef", 5001)

	require.NotEqual(t, b1.Hash, b2.Hash, "transaction order is part of the hash preimage")
}

func TestBlockHashRecomputation(t *testing.T) {
	b := NewBlock(3, []Transaction{tx("A", "B", 1)}, "feed", 5002)
	require.Equal(t, b.Hash, b.ComputeHash())

	mutated := b
	mutated.Miner = 5003
	require.NotEqual(t, b.Hash, mutated.ComputeHash())
}

func TestRenderTransactionListEmpty(t *testing.T) {
	require.Equal(t, "[]", renderTransactionList(nil))
}
