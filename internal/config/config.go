// Package config resolves a node's startup configuration from CLI flags,
// optionally overlaid on a TOML file for the values operators want to keep
// out of shell history or process listings.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the fully-resolved configuration a node starts with. Port
// doubles as the node identifier per the spec's node-identifier convention.
type Config struct {
	Port      int
	BlockTime time.Duration
	Nodes     []int
}

// fileConfig is the shape accepted from an optional --config TOML file.
// block_time_seconds mirrors --blocktime's unit (whole seconds).
type fileConfig struct {
	Port             int   `toml:"port"`
	BlockTimeSeconds int   `toml:"block_time_seconds"`
	Nodes            []int `toml:"nodes"`
}

// LoadFile reads a TOML config file and returns it as a Config. A zero
// BlockTimeSeconds or Port in the file means "not set" and is left at the
// Go zero value for the caller to fill in from CLI flags.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}

	return &Config{
		Port:      fc.Port,
		BlockTime: time.Duration(fc.BlockTimeSeconds) * time.Second,
		Nodes:     fc.Nodes,
	}, nil
}

// Merge overlays non-zero fields of override onto c, returning the result.
// CLI flags are treated as the override so an explicit flag always wins
// over the config file.
func (c Config) Merge(override Config) Config {
	out := c
	if override.Port != 0 {
		out.Port = override.Port
	}
	if override.BlockTime != 0 {
		out.BlockTime = override.BlockTime
	}
	if len(override.Nodes) != 0 {
		out.Nodes = override.Nodes
	}
	return out
}

// Validate reports whether the configuration is complete enough to start a
// node: a port, a positive block time, and a non-empty node list that
// includes the node's own port.
func (c Config) Validate() error {
	if c.Port == 0 {
		return fmt.Errorf("config: --port is required")
	}
	if c.BlockTime <= 0 {
		return fmt.Errorf("config: --blocktime must be positive")
	}
	if len(c.Nodes) == 0 {
		return fmt.Errorf("config: --nodes is required")
	}
	found := false
	for _, n := range c.Nodes {
		if n == c.Port {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config: --nodes must include this node's own --port (%d)", c.Port)
	}
	return nil
}
