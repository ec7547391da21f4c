package hook

import (
	"github.com/rs/zerolog"

	"github.com/ledgerhooks/hookexec/ledger"
)

// Option configures a Runner.
type Option func(*runnerConfig)

type runnerConfig struct {
	maxStateSize    int
	feeCeiling      int64
	log             zerolog.Logger
	metrics         *Metrics
	txFactory       ledger.TxFactory
	moduleCacheSize int
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		maxStateSize:    128,
		log:             zerolog.Nop(),
		txFactory:       ledger.StdTxFactory{},
		moduleCacheSize: 64,
	}
}

// WithMaxStateSize overrides the per-entry state value cap.
func WithMaxStateSize(n int) Option {
	return func(c *runnerConfig) {
		c.maxStateSize = n
	}
}

// WithFeeCeiling sets a fixed ceiling for emission fees. Zero keeps
// the default size-proportional ceiling.
func WithFeeCeiling(drops int64) Option {
	return func(c *runnerConfig) {
		c.feeCeiling = drops
	}
}

// WithLogger routes runner diagnostics and the guest trace channel.
// The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *runnerConfig) {
		c.log = log
	}
}

// WithMetrics attaches invocation counters.
func WithMetrics(m *Metrics) Option {
	return func(c *runnerConfig) {
		c.metrics = m
	}
}

// WithTxFactory substitutes the transaction factory used to parse
// emission templates.
func WithTxFactory(f ledger.TxFactory) Option {
	return func(c *runnerConfig) {
		c.txFactory = f
	}
}

// WithModuleCacheSize bounds the validated-module cache.
func WithModuleCacheSize(n int) Option {
	return func(c *runnerConfig) {
		c.moduleCacheSize = n
	}
}
