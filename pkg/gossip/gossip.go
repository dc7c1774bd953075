package gossip

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ryandielhenn/gossipcache/pkg/message"
)

var (
	ErrAlreadyStarted = errors.New("gossip: heartbeat already started")
	ErrBadInterval    = errors.New("gossip: heartbeat interval must be positive")
	ErrNoCache        = errors.New("gossip: nil cache")
)

// Cache is the part of the message cache the gossip layer drives.
// *mcache.MessageCache satisfies it.
type Cache interface {
	GetGossipIDs(topic string) []string
	GetForPeer(id string, p message.PeerID) (*message.Message, int, bool)
	Shift()
}

type HeartbeatConfig struct {
	Interval time.Duration
	// Topics lists the topics to advertise on each tick. It is called once
	// per tick so the subscription set may change between ticks.
	Topics func() []string
	Logger *zap.Logger
}

// Heartbeat advertises the cache's gossip window on every tick and then ages
// the cache by one epoch.
type Heartbeat struct {
	cache Cache
	adv   Advertiser
	cfg   HeartbeatConfig
	log   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	ticks  uint64
}

func NewHeartbeat(cache Cache, adv Advertiser, cfg HeartbeatConfig) (*Heartbeat, error) {
	if cache == nil {
		return nil, ErrNoCache
	}
	if cfg.Interval <= 0 {
		return nil, ErrBadInterval
	}
	if cfg.Topics == nil {
		cfg.Topics = func() []string { return nil }
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Heartbeat{cache: cache, adv: adv, cfg: cfg, log: log}, nil
}

// Start runs the heartbeat loop until ctx is cancelled or Stop is called.
func (h *Heartbeat) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})
	go h.loop(ctx, h.done)
	return nil
}

// Stop halts the loop and waits for an in-flight tick to finish. It is safe to
// call multiple times and on a heartbeat that was never started.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (h *Heartbeat) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(h.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Tick runs one heartbeat round synchronously: emit IHAVE for every topic
// with ids in the gossip window, then shift the cache. Advertiser failures
// are logged and do not stop the shift.
func (h *Heartbeat) Tick(ctx context.Context) {
	if h.adv != nil {
		for _, topic := range h.cfg.Topics() {
			ids := h.cache.GetGossipIDs(topic)
			if len(ids) == 0 {
				continue
			}
			if err := h.adv.Advertise(ctx, IHave{Topic: topic, IDs: ids}); err != nil {
				h.log.Warn("advertise failed", zap.Stringer("type", MsgIHave),
					zap.String("topic", topic), zap.Int("ids", len(ids)), zap.Error(err))
			}
		}
	}
	h.cache.Shift()

	h.mu.Lock()
	h.ticks++
	h.mu.Unlock()
}

// Ticks returns the number of completed heartbeat rounds.
func (h *Heartbeat) Ticks() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ticks
}
