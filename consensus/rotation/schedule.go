// Package rotation computes which configured node is responsible for
// proposing a given block number. There is no leader election here: the
// schedule is a deterministic function of the fixed node list every node
// is started with.
package rotation

import (
	"fmt"

	"github.com/latticeledger/ledgerd/core/mathutil"
	"github.com/latticeledger/ledgerd/core/types"
)

// Schedule is the ordered, fixed list of node identifiers every node in the
// cluster is configured with at startup. Block b (1-indexed) is proposed by
// Nodes[(b-1) mod len(Nodes)].
type Schedule struct {
	nodes []types.NodeID
}

// New builds a Schedule from the cluster's configured node list. The order
// of nodes matters and must be identical across every node in the cluster;
// New does not sort it.
func New(nodes []types.NodeID) (*Schedule, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("rotation: at least one node is required")
	}
	cp := make([]types.NodeID, len(nodes))
	copy(cp, nodes)
	return &Schedule{nodes: cp}, nil
}

// Len returns the number of configured nodes.
func (s *Schedule) Len() int { return len(s.nodes) }

// Nodes returns a defensive copy of the configured node list.
func (s *Schedule) Nodes() []types.NodeID {
	out := make([]types.NodeID, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// ProposerFor returns the node responsible for proposing block number
// (1-indexed).
func (s *Schedule) ProposerFor(blockNumber uint64) types.NodeID {
	idx := mathutil.Mod(int((blockNumber-1)%uint64(len(s.nodes))), len(s.nodes))
	return s.nodes[idx]
}

// NextProposer returns the node responsible for the block that follows the
// one just committed by miner at committedNumber.
func (s *Schedule) NextProposer(committedNumber uint64) types.NodeID {
	return s.ProposerFor(committedNumber + 1)
}

// Bootstrap returns the node responsible for triggering genesis: the
// configured node with the minimum identifier.
func (s *Schedule) Bootstrap() types.NodeID {
	min := s.nodes[0]
	for _, n := range s.nodes[1:] {
		if n < min {
			min = n
		}
	}
	return min
}

// IsBootstrap reports whether id is the designated genesis-triggering node.
func (s *Schedule) IsBootstrap(id types.NodeID) bool {
	return id == s.Bootstrap()
}
