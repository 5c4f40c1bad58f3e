// Package miner runs the background worker that is dormant until
// triggered, either by an external genesis command at the bootstrap node
// or by gossip ingress designating this node as the next proposer. Once
// triggered it sleeps the configured mining interval, then snapshots,
// validates, builds, applies and gossips exactly one block.
//
// The worker loop is the same shape as go-ethereum's raft minter: a single
// buffered trigger channel coalesces any number of RequestMint calls
// received before the worker wakes into at most one pending mint.
package miner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/latticeledger/ledgerd/core/types"
)

// Engine is the subset of the node's composition root the miner drives. It
// is satisfied by engine.Engine; the interface exists so miner can be
// tested without constructing a full engine.
type Engine interface {
	// SelfID is the identifier of the node this miner is running on.
	SelfID() types.NodeID
	// Mine snapshots the mempool, builds and applies the next block
	// locally, and broadcasts it to peers.
	Mine(ctx context.Context)
}

// Miner owns the trigger channel and the background goroutine.
type Miner struct {
	engine    Engine
	blockTime time.Duration
	log       *zap.SugaredLogger
	trigger   chan struct{}
	done      chan struct{}
}

// New builds a Miner bound to engine. The miner does nothing until
// RequestMint is called.
func New(engine Engine, blockTime time.Duration, log *zap.SugaredLogger) *Miner {
	return &Miner{
		engine:    engine,
		blockTime: blockTime,
		log:       log,
		trigger:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// RequestMint notifies the worker that it should propose the next block.
// It is idempotent: calling it repeatedly before the worker wakes and
// drains the channel coalesces into a single mining attempt, matching the
// spec's "no explicit pool-is-full signal, delay starts at trigger time"
// rule.
func (m *Miner) RequestMint() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled. On every trigger it sleeps blockTime,
// drains any triggers that arrived during the sleep, and mines once.
func (m *Miner) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.trigger:
			if !m.sleep(ctx) {
				return
			}
			m.drainPending()
			m.engine.Mine(ctx)
			m.log.Debugw("mine attempt complete", "node", m.engine.SelfID().String())
		}
	}
}

// Wait blocks until Run has returned.
func (m *Miner) Wait() {
	<-m.done
}

func (m *Miner) sleep(ctx context.Context) bool {
	timer := time.NewTimer(m.blockTime)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *Miner) drainPending() {
	select {
	case <-m.trigger:
	default:
	}
}
