// Package engine is the process-wide composition root: it owns the chain,
// state, mempool and rotation schedule behind a single mutex and exposes
// the operations the RPC layer and the miner worker drive. There is one
// Engine per node; it is handed to collaborators by dependency injection
// rather than held as a package-level global.
package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/latticeledger/ledgerd/consensus/rotation"
	"github.com/latticeledger/ledgerd/consensus/validator"
	"github.com/latticeledger/ledgerd/core/mempool"
	"github.com/latticeledger/ledgerd/core/state"
	"github.com/latticeledger/ledgerd/core/types"
	"github.com/latticeledger/ledgerd/feed"
	"github.com/latticeledger/ledgerd/gossip"
)

// Minter is the subset of *miner.Miner the engine needs: a way to wake the
// background worker. It is an interface so engine can be constructed and
// tested before a miner exists, and so the two packages do not import each
// other.
type Minter interface {
	RequestMint()
}

// Engine guards chain, state and mempool mutation behind a single mutex,
// per the linearizability requirement every observer (dump, ingress,
// validate) depends on.
type Engine struct {
	mu sync.Mutex

	self     types.NodeID
	schedule *rotation.Schedule
	state    *state.State
	pool     *mempool.Pool
	chain    []types.Block

	peers       []gossip.Peer
	broadcaster *gossip.Broadcaster
	minter      Minter
	feed        *feed.Hub

	log *zap.SugaredLogger
}

// DumpResult is the payload returned by the snapshot query surface.
type DumpResult struct {
	Chain               []types.Block           `json:"chain"`
	PendingTransactions []types.Transaction     `json:"pending_transactions"`
	State               map[string]types.Amount `json:"state"`
}

// New builds an Engine for node self, configured with the cluster's fixed
// node list (used to derive the rotation schedule) and the peers to gossip
// mined blocks to.
func New(self types.NodeID, nodes []types.NodeID, peers []gossip.Peer, broadcaster *gossip.Broadcaster, log *zap.SugaredLogger) (*Engine, error) {
	schedule, err := rotation.New(nodes)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if broadcaster == nil {
		broadcaster = gossip.New(nil, log)
	}
	return &Engine{
		self:        self,
		schedule:    schedule,
		state:       state.New(),
		pool:        mempool.New(),
		peers:       peers,
		broadcaster: broadcaster,
		feed:        feed.NewHub(),
		log:         log,
	}, nil
}

// SetMinter wires the background miner worker in after construction,
// breaking the otherwise-circular dependency between engine and miner.
func (e *Engine) SetMinter(m Minter) {
	e.minter = m
}

// Feed returns the hub live block subscribers attach to.
func (e *Engine) Feed() *feed.Hub {
	return e.feed
}

// Close releases resources owned by the engine that outlive a single
// request, currently just the live block feed's dispatch goroutine.
func (e *Engine) Close() {
	e.feed.Close()
}

// SelfID returns this node's identifier, satisfying miner.Engine.
func (e *Engine) SelfID() types.NodeID {
	return e.self
}

// SubmitTransaction appends t to the mempool. Per the spec's error-handling
// design, applicability is path-dependent and is never checked at
// submission time; an unaffordable transaction is retained for retry.
func (e *Engine) SubmitTransaction(t types.Transaction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool.Add(t)
}

// StartGenesis handles the external genesis command. It is a no-op unless
// self is the bootstrap node (the configured node with the minimum
// identifier), in which case it wakes the miner to propose block 1.
// Reports whether this node is the bootstrap node.
func (e *Engine) StartGenesis() bool {
	e.mu.Lock()
	isBootstrap := e.schedule.IsBootstrap(e.self)
	e.mu.Unlock()

	if !isBootstrap {
		return false
	}
	if e.minter != nil {
		e.minter.RequestMint()
	}
	return true
}

// IngestBlock runs the block-validation state machine against a
// peer-proposed block and, if valid, applies it and appends it to the
// chain. On success, if the next proposer in rotation is this node, it
// wakes the miner. Engine state is unchanged on rejection.
func (e *Engine) IngestBlock(block types.Block) error {
	e.mu.Lock()
	ok, err := validator.IsNewBlockValid(e.chain, block, block.Hash, e.state, e.schedule)
	if !ok {
		e.mu.Unlock()
		return err
	}

	e.state.Apply(block)
	e.chain = append(e.chain, block)
	next := e.schedule.NextProposer(block.Number)
	e.mu.Unlock()

	e.feed.Publish(block)
	if next == e.self && e.minter != nil {
		e.minter.RequestMint()
	}
	return nil
}

// Mine performs one proposal cycle: snapshot the mempool in canonical
// order, validate it against current state, build and apply the resulting
// block, then gossip it to every peer. Called by the miner worker; it is
// the only path (besides IngestBlock) that mutates chain and state.
func (e *Engine) Mine(ctx context.Context) {
	e.mu.Lock()
	var block types.Block
	if len(e.chain) == 0 {
		block = types.NewGenesisBlock(e.self)
	} else {
		tip := e.chain[len(e.chain)-1]
		candidates := e.pool.Snapshot()
		included := e.state.Validate(candidates)
		block = types.NewBlock(tip.Number+1, included, tip.Hash, e.self)
		e.pool.Remove(included)
	}
	e.state.Apply(block)
	e.chain = append(e.chain, block)
	e.mu.Unlock()

	e.log.Infow("mined block", "number", block.Number, "miner", block.Miner.String(), "txns", len(block.Transactions))
	e.feed.Publish(block)
	e.broadcaster.Broadcast(ctx, e.peers, block)
}

// Dump returns a snapshot of the chain, pending mempool and account
// balances, consistent as of a single instant.
func (e *Engine) Dump() DumpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	chainCopy := make([]types.Block, len(e.chain))
	copy(chainCopy, e.chain)

	return DumpResult{
		Chain:               chainCopy,
		PendingTransactions: e.pool.Snapshot(),
		State:               e.state.Snapshot(),
	}
}

// History returns account's recorded per-block balance deltas.
func (e *Engine) History(account string) []types.HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.History(account)
}
