package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tx(s, r string, amount uint64) Transaction {
	return Transaction{Sender: s, Recipient: r, Amount: NewAmount(amount)}
}

func TestTransactionString(t *testing.T) {
	require.Equal(t, "T(A -> B: 5000)", tx("A", "B", 5000).String())
}

func TestTransactionEqual(t *testing.T) {
	require.True(t, tx("A", "B", 5000).Equal(tx("A", "B", 5000)))
	require.False(t, tx("A", "B", 5000).Equal(tx("A", "B", 5001)))
	require.False(t, tx("A", "B", 5000).Equal(tx("A", "C", 5000)))
}

func TestSortTransactionsCanonicalOrder(t *testing.T) {
	in := []Transaction{
		tx("A", "B", 2500),
		tx("A", "B", 3000),
		tx("A", "C", 550),
		tx("A", "C", 2800),
		tx("A", "B", 1000),
		tx("A", "C", 550),
	}
	got := SortTransactions(in)

	want := []Transaction{
		tx("A", "B", 1000),
		tx("A", "B", 2500),
		tx("A", "B", 3000),
		tx("A", "C", 550),
		tx("A", "C", 550),
		tx("A", "C", 2800),
	}
	require.Equal(t, want, got)
	// the input slice must not be mutated
	require.Equal(t, uint64(2500), in[0].Amount.v.Uint64())
}

func TestSortTransactionsKeepsDuplicates(t *testing.T) {
	in := []Transaction{tx("A", "B", 10), tx("A", "B", 10)}
	got := SortTransactions(in)
	require.Len(t, got, 2)
	require.True(t, got[0].Equal(got[1]))
}
