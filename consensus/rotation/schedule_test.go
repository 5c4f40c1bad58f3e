package rotation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeledger/ledgerd/core/types"
)

func nodes(ids ...int) []types.NodeID {
	out := make([]types.NodeID, len(ids))
	for i, id := range ids {
		out[i] = types.NodeID(id)
	}
	return out
}

func TestProposerForRoundRobin(t *testing.T) {
	s, err := New(nodes(5001, 5002, 5003))
	require.NoError(t, err)

	require.Equal(t, types.NodeID(5001), s.ProposerFor(1))
	require.Equal(t, types.NodeID(5002), s.ProposerFor(2))
	require.Equal(t, types.NodeID(5003), s.ProposerFor(3))
	require.Equal(t, types.NodeID(5001), s.ProposerFor(4))
}

func TestNextProposer(t *testing.T) {
	s, err := New(nodes(5001, 5002, 5003))
	require.NoError(t, err)

	require.Equal(t, types.NodeID(5002), s.NextProposer(1))
	require.Equal(t, types.NodeID(5001), s.NextProposer(3))
}

func TestBootstrapIsMinimumID(t *testing.T) {
	s, err := New(nodes(5003, 5001, 5002))
	require.NoError(t, err)

	require.Equal(t, types.NodeID(5001), s.Bootstrap())
	require.True(t, s.IsBootstrap(5001))
	require.False(t, s.IsBootstrap(5002))
}

func TestNewRejectsEmptySchedule(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
