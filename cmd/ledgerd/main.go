// Command ledgerd runs a single node of the replicated ledger cluster: an
// HTTP RPC surface, a background miner, and gossip to the other configured
// nodes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/latticeledger/ledgerd/core/types"
	"github.com/latticeledger/ledgerd/engine"
	"github.com/latticeledger/ledgerd/gossip"
	"github.com/latticeledger/ledgerd/internal/config"
	"github.com/latticeledger/ledgerd/internal/logging"
	"github.com/latticeledger/ledgerd/miner"
	"github.com/latticeledger/ledgerd/rpc"
)

func main() {
	app := &cli.App{
		Name:  "ledgerd",
		Usage: "run a node of the replicated ledger cluster",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "this node's RPC port and cluster identifier", Required: true},
			&cli.IntFlag{Name: "blocktime", Usage: "mining interval in seconds", Value: 5},
			&cli.IntSliceFlag{Name: "nodes", Usage: "full cluster node list, including this node's own port", Required: true},
			&cli.StringFlag{Name: "config", Usage: "optional TOML config file overlaid under these flags"},
			&cli.BoolFlag{Name: "debug", Usage: "enable human-readable debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Config{
		Port:      c.Int("port"),
		BlockTime: time.Duration(c.Int("blocktime")) * time.Second,
		Nodes:     c.IntSlice("nodes"),
	}

	if path := c.String("config"); path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		// --blocktime always has a value; only an explicit flag overrides the file.
		if !c.IsSet("blocktime") && fileCfg.BlockTime != 0 {
			cfg.BlockTime = fileCfg.BlockTime
		}
		cfg = fileCfg.Merge(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(c.Bool("debug"), cfg.Port)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	self := types.NodeID(cfg.Port)
	nodes := make([]types.NodeID, len(cfg.Nodes))
	var peers []gossip.Peer
	for i, n := range cfg.Nodes {
		nodes[i] = types.NodeID(n)
		if n != cfg.Port {
			peers = append(peers, gossip.Peer{ID: types.NodeID(n), BaseURL: fmt.Sprintf("http://127.0.0.1:%d", n)})
		}
	}

	broadcaster := gossip.New(nil, log)
	eng, err := engine.New(self, nodes, peers, broadcaster, log)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}
	defer eng.Close()

	m := miner.New(eng, cfg.BlockTime, log)
	eng.SetMinter(m)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go m.Run(ctx)

	server := rpc.New(eng, log)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Infow("node starting", "port", cfg.Port, "nodes", cfg.Nodes, "blocktime", cfg.BlockTime)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	m.Wait()
	return nil
}
