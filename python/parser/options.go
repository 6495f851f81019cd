package parser

import (
	"github.com/tliron/commonlog"
)

const (
	DefaultTabWidth       = 8
	DefaultMaxItems       = 4_000_000
	DefaultRecoveryRounds = 8
)

type config struct {
	tabWidth int
	comments bool
	maxItems int
	rounds   int
	log      commonlog.Logger
}

// Option configures scanning and parsing.
type Option func(*config)

// WithTabWidth sets the tab stop width used to measure indentation.
func WithTabWidth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tabWidth = n
		}
	}
}

// WithComments keeps comment tokens so they can be retrieved from the
// scanner or the tree.
func WithComments(keep bool) Option {
	return func(c *config) {
		c.comments = keep
	}
}

// WithMaxItems bounds the number of Earley items a single statement may
// create. A statement over the bound has its header reported as an ERROR
// node and the statements of its blocks parsed on their own. Zero disables
// the bound.
func WithMaxItems(n int) Option {
	return func(c *config) {
		c.maxItems = n
	}
}

// WithRecoveryRounds bounds how many error regions recovery carves out of
// one top-level statement before giving up on it as a whole.
func WithRecoveryRounds(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.rounds = n
		}
	}
}

// WithLogger sets the logger the driver reports recovery and ambiguities to.
func WithLogger(log commonlog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		tabWidth: DefaultTabWidth,
		maxItems: DefaultMaxItems,
		rounds:   DefaultRecoveryRounds,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = commonlog.GetLogger("pyfront.parser")
	}
	return cfg
}

func (c config) with(opts []Option) config {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
