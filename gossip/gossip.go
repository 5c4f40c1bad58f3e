// Package gossip broadcasts locally-mined blocks to peer nodes. Delivery is
// best-effort: a peer that is unreachable or slow never blocks or fails the
// broadcast for the other peers. Broadcast returns once every send has
// finished or hit the client timeout.
package gossip

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/latticeledger/ledgerd/core/types"
)

// Peer identifies a cluster member reachable at BaseURL, e.g.
// "http://127.0.0.1:5002".
type Peer struct {
	ID      types.NodeID
	BaseURL string
}

// Broadcaster fans a mined block out to every configured peer concurrently.
type Broadcaster struct {
	client *http.Client
	log    *zap.SugaredLogger
}

// New builds a Broadcaster. A nil client uses a default with a bounded
// per-request timeout so one unresponsive peer cannot stall the fan-out.
func New(client *http.Client, log *zap.SugaredLogger) *Broadcaster {
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	return &Broadcaster{client: client, log: log}
}

// Broadcast POSTs block to every peer's /inform/block endpoint
// concurrently. It never returns an error: per-peer failures are logged and
// otherwise ignored, matching the spec's best-effort gossip contract.
func (b *Broadcaster) Broadcast(ctx context.Context, peers []Peer, block types.Block) {
	var g errgroup.Group
	for _, peer := range peers {
		peer := peer
		g.Go(func() error {
			if err := b.send(ctx, peer, block); err != nil {
				b.log.Warnw("gossip to peer failed", "peer", peer.ID.String(), "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Broadcaster) send(ctx context.Context, peer Peer, block types.Block) error {
	payload, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("encode block: %w", err)
	}

	url := peer.BaseURL + "/inform/block"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("peer %s returned status %d", peer.ID.String(), resp.StatusCode)
	}
	return nil
}
