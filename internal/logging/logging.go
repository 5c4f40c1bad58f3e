// Package logging builds the process-wide zap logger every other package
// takes as a dependency rather than reaching for a package-level global.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a SugaredLogger. debug selects a human-readable development
// encoder with debug-level output; otherwise a JSON production encoder at
// info level is used.
func New(debug bool, nodeID int) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar().With("node", nodeID), nil
}
