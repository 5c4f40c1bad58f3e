// Package validator implements the block-validation state machine: the set
// of pure checks run against a proposed block before it is ever appended to
// the chain or applied to state.
package validator

import (
	"github.com/pkg/errors"

	"github.com/latticeledger/ledgerd/consensus/rotation"
	"github.com/latticeledger/ledgerd/core/state"
	"github.com/latticeledger/ledgerd/core/types"
)

// Sentinel errors returned by IsNewBlockValid alongside a false verdict,
// naming which check rejected the block so callers can log something more
// useful than a bare boolean.
var (
	ErrHashMismatch        = errors.New("block hash does not match its content")
	ErrBadGenesisLineage   = errors.New("genesis candidate has the wrong previous_hash or number")
	ErrBadLineage          = errors.New("previous_hash or number does not follow the chain tip")
	ErrTransactionsSkipped = errors.New("one or more transactions cannot apply against current state")
	ErrWrongProposer       = errors.New("miner is not the expected proposer for this block number")
)

// IsNewBlockValid runs the four checks from the block-validation state
// machine, short-circuiting on the first failure: integrity, lineage,
// transaction applicability, and proposer schedule. claimedHash is the hash
// value the sender asserts for the block, which for a locally-gossiped
// block will be identical to block.Hash but is checked independently
// because it is what travels on the wire.
//
// chain is the local chain in commit order; an empty chain means the
// candidate is being evaluated as a genesis block.
func IsNewBlockValid(chain []types.Block, block types.Block, claimedHash string, st *state.State, schedule *rotation.Schedule) (bool, error) {
	recomputed := block.ComputeHash()
	if recomputed != block.Hash || recomputed != claimedHash {
		return false, ErrHashMismatch
	}

	if len(chain) == 0 {
		if block.PreviousHash != types.GenesisPreviousHash || block.Number != 1 {
			return false, ErrBadGenesisLineage
		}
	} else {
		tip := chain[len(chain)-1]
		if block.PreviousHash != tip.Hash || block.Number != tip.Number+1 {
			return false, ErrBadLineage
		}
	}

	applicable := st.Validate(block.Transactions)
	if len(applicable) != len(block.Transactions) {
		return false, ErrTransactionsSkipped
	}

	expected := schedule.ProposerFor(block.Number)
	if block.Miner != expected {
		return false, ErrWrongProposer
	}

	return true, nil
}
