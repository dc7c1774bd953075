package mcache

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ryandielhenn/gossipcache/pkg/message"
)

var ErrInvalidConfig = errors.New("mcache: invalid config")

// Config sizes the cache window.
//
// GossipWindow is the number of newest epochs advertised by GetGossipIDs.
// HistoryLength is the total number of epochs a message is retained for.
// The slack between the two covers the delay between a peer seeing an IHAVE
// and pulling the message with IWANT.
type Config struct {
	GossipWindow  int
	HistoryLength int
	// IDFn derives message ids. Nil selects message.DefaultMsgID.
	IDFn message.IDFunc
}

// DefaultConfig mirrors the gossipsub defaults: advertise 3 heartbeats,
// retain 5.
func DefaultConfig() Config {
	return Config{
		GossipWindow:  3,
		HistoryLength: 5,
		IDFn:          message.DefaultMsgID,
	}
}

// Validate reports every problem with the config, not just the first.
func (c Config) Validate() error {
	var errs *multierror.Error
	if c.GossipWindow < 1 {
		errs = multierror.Append(errs, fmt.Errorf("gossip window must be positive, got %d", c.GossipWindow))
	}
	if c.HistoryLength < 1 {
		errs = multierror.Append(errs, fmt.Errorf("history length must be positive, got %d", c.HistoryLength))
	}
	if c.GossipWindow > c.HistoryLength {
		errs = multierror.Append(errs, fmt.Errorf("gossip window (%d) cannot be larger than history length (%d)",
			c.GossipWindow, c.HistoryLength))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

type Option func(*MessageCache)

func WithLogger(log *zap.Logger) Option {
	return func(mc *MessageCache) {
		if log != nil {
			mc.log = log
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(mc *MessageCache) {
		if m != nil {
			mc.metrics = m
		}
	}
}
