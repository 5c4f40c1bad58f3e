package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeledger/ledgerd/core/types"
)

func tx(s, r string, amount uint64) types.Transaction {
	return types.Transaction{Sender: s, Recipient: r, Amount: types.NewAmount(amount)}
}

func balance(t *testing.T, s *State, account string) string {
	t.Helper()
	b, ok := s.Balance(account)
	require.True(t, ok, "account %s should exist", account)
	return b.String()
}

func TestGenesisSeedsAndRecordsHistory(t *testing.T) {
	s := New()
	genesis := types.NewGenesisBlock(5000)
	s.Apply(genesis)

	require.Equal(t, "10000", balance(t, s, GenesisAccount))
	history := s.History(GenesisAccount)
	require.Len(t, history, 1)
	require.Equal(t, uint64(1), history[0].BlockNumber)
	require.Equal(t, big.NewInt(10000), history[0].Delta)
}

func TestSimpleTransferScenario(t *testing.T) {
	s := New()
	s.Apply(types.NewGenesisBlock(5000))

	block := types.NewBlock(2, []types.Transaction{tx("A", "B", 5000)}, "ignored", 5001)
	s.Apply(block)

	require.Equal(t, "5000", balance(t, s, "A"))
	require.Equal(t, "5000", balance(t, s, "B"))
}

func TestOrderingAndRetryScenario(t *testing.T) {
	s := New()
	s.Apply(types.NewGenesisBlock(5000))

	submitted := []types.Transaction{
		tx("A", "B", 2500),
		tx("A", "B", 3000),
		tx("A", "C", 550),
		tx("A", "C", 2800),
		tx("A", "B", 1000),
		tx("A", "C", 550),
	}
	sorted := types.SortTransactions(submitted)
	included := s.Validate(sorted)

	require.Len(t, included, 5)
	require.True(t, included[5-1].Equal(tx("A", "C", 550)))
	require.False(t, containsAmount(included, 2800))

	block := types.NewBlock(2, included, "ignored", 5001)
	s.Apply(block)

	require.Equal(t, "2400", balance(t, s, "A"))
	require.Equal(t, "6500", balance(t, s, "B"))
	require.Equal(t, "1100", balance(t, s, "C"))
}

func containsAmount(txns []types.Transaction, amount uint64) bool {
	for _, t := range txns {
		if t.Amount.Cmp(types.NewAmount(amount)) == 0 {
			return true
		}
	}
	return false
}

func TestTransitiveValidityDefersUnaffordable(t *testing.T) {
	s := New()
	s.Apply(types.NewGenesisBlock(5000))

	submitted := types.SortTransactions([]types.Transaction{
		tx("A", "B", 4000),
		tx("B", "C", 1000),
		tx("C", "A", 500),
		tx("A", "D", 6500),
	})
	included := s.Validate(submitted)
	require.Len(t, included, 3)
	require.False(t, containsRecipient(included, "D"))

	s.Apply(types.NewBlock(2, included, "ignored", 5001))
	require.Equal(t, "6500", balance(t, s, "A"))
	require.Equal(t, "3000", balance(t, s, "B"))
	require.Equal(t, "500", balance(t, s, "C"))

	// A→D:6500 was deferred only because it sorted ahead of C→A:500 inside
	// block 2; against A's post-block balance of 6500 it is now affordable.
	deferred := s.Validate([]types.Transaction{tx("A", "D", 6500)})
	require.Len(t, deferred, 1)

	// after three no-op blocks (matching the spec's "three further commits")
	s.Apply(types.NewBlock(3, nil, "ignored", 5002))
	s.Apply(types.NewBlock(4, nil, "ignored", 5000))
	s.Apply(types.NewBlock(5, nil, "ignored", 5001))

	deferred = s.Validate([]types.Transaction{tx("A", "D", 6500)})
	require.Len(t, deferred, 1)
	s.Apply(types.NewBlock(6, deferred, "ignored", 5002))

	require.Equal(t, "0", balance(t, s, "A"))
	require.Equal(t, "3000", balance(t, s, "B"))
	require.Equal(t, "500", balance(t, s, "C"))
	require.Equal(t, "6500", balance(t, s, "D"))
}

func containsRecipient(txns []types.Transaction, recipient string) bool {
	for _, t := range txns {
		if t.Recipient == recipient {
			return true
		}
	}
	return false
}

func TestInvalidBlockCandidatesRejectedByValidate(t *testing.T) {
	s := New()
	s.Apply(types.NewGenesisBlock(5000))

	require.Empty(t, s.Validate([]types.Transaction{tx("A", "B", 20000)}))
	require.Empty(t, s.Validate([]types.Transaction{tx("C", "A", 200)}))

	// A→B:6000, A→C:6000 -- only the first is affordable, so the full set
	// is rejected at the block-validity layer (validator requires all
	// transactions to survive Validate unchanged); Validate itself still
	// reports the affordable prefix.
	mixed := s.Validate([]types.Transaction{tx("A", "B", 6000), tx("A", "C", 6000)})
	require.Len(t, mixed, 1)

	accepted := s.Validate([]types.Transaction{tx("A", "B", 6000), tx("B", "C", 3000)})
	require.Len(t, accepted, 2)
	s.Apply(types.NewBlock(2, accepted, "ignored", 5001))

	require.Equal(t, "4000", balance(t, s, "A"))
	require.Equal(t, "3000", balance(t, s, "B"))
	require.Equal(t, "3000", balance(t, s, "C"))
}

func TestHistoryScenario(t *testing.T) {
	s := New()
	s.Apply(types.NewGenesisBlock(5000))                                              // block 1
	s.Apply(types.NewBlock(2, []types.Transaction{tx("A", "B", 5000)}, "x", 5001))     // block 2
	s.Apply(types.NewBlock(3, []types.Transaction{tx("B", "C", 1500)}, "x", 5002))     // block 3
	s.Apply(types.NewBlock(4, []types.Transaction{tx("C", "A", 100)}, "x", 5000))      // block 4

	history := s.History("A")
	require.Len(t, history, 3)
	require.Equal(t, uint64(1), history[0].BlockNumber)
	require.Equal(t, big.NewInt(10000), history[0].Delta)
	require.Equal(t, uint64(2), history[1].BlockNumber)
	require.Equal(t, big.NewInt(-5000), history[1].Delta)
	require.Equal(t, uint64(4), history[2].BlockNumber)
	require.Equal(t, big.NewInt(100), history[2].Delta)
}

func TestHistoryUnknownAccountIsEmpty(t *testing.T) {
	s := New()
	require.Empty(t, s.History("nobody"))
}
