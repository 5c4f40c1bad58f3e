// Package feed fans out newly-committed blocks, whether locally mined or
// ingested from a peer, to any number of live subscribers. It is a thin
// pub/sub hub; the transport (rpc's websocket handler) owns connection
// lifecycle.
package feed

import "github.com/latticeledger/ledgerd/core/types"

// Hub tracks the current set of subscribers and publishes every block at
// most once to each of them; a subscriber whose buffer is full misses it.
type Hub struct {
	subscribe   chan chan types.Block
	unsubscribe chan chan types.Block
	publish     chan types.Block
	done        chan struct{}
}

// NewHub starts the hub's dispatch loop and returns it. Callers should call
// Close when the node shuts down.
func NewHub() *Hub {
	h := &Hub{
		subscribe:   make(chan chan types.Block),
		unsubscribe: make(chan chan types.Block),
		publish:     make(chan types.Block, 16),
		done:        make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	subscribers := make(map[chan types.Block]struct{})
	for {
		select {
		case <-h.done:
			for sub := range subscribers {
				close(sub)
			}
			return
		case sub := <-h.subscribe:
			subscribers[sub] = struct{}{}
		case sub := <-h.unsubscribe:
			if _, ok := subscribers[sub]; ok {
				delete(subscribers, sub)
				close(sub)
			}
		case block := <-h.publish:
			for sub := range subscribers {
				select {
				case sub <- block:
				default:
					// slow subscriber; drop the block rather than block the miner.
				}
			}
		}
	}
}

// Publish announces block to every current subscriber. It never blocks the
// caller on a slow or stalled subscriber.
func (h *Hub) Publish(block types.Block) {
	select {
	case h.publish <- block:
	case <-h.done:
	}
}

// Subscribe registers a new listener and returns a channel of blocks
// published from this point on, plus an unsubscribe func the caller must
// invoke when it stops reading.
func (h *Hub) Subscribe() (<-chan types.Block, func()) {
	ch := make(chan types.Block, 8)
	select {
	case h.subscribe <- ch:
	case <-h.done:
		close(ch)
	}
	return ch, func() {
		select {
		case h.unsubscribe <- ch:
		case <-h.done:
		}
	}
}

// Close shuts down the hub and every live subscription.
func (h *Hub) Close() {
	close(h.done)
}
