package mcache

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ryandielhenn/gossipcache/pkg/kv"
	"github.com/ryandielhenn/gossipcache/pkg/message"
)

// MessageCache is a sliding-window cache that remembers messages for
// HistoryLength heartbeats and advertises those seen in the last GossipWindow
// heartbeats. A single lock guards the store, history and peer counters so
// that every operation observes them as one unit.
type MessageCache struct {
	mu      sync.RWMutex
	msgs    *kv.Store
	history *history
	peertx  peerTx
	gossip  int
	msgID   message.IDFunc

	log     *zap.Logger
	metrics Metrics
}

// Stats is a point-in-time summary of the cache contents.
type Stats struct {
	Messages      int   `json:"messages"`
	Bytes         int   `json:"bytes"`
	TrackedIDs    int   `json:"tracked_ids"`
	GossipWindow  int   `json:"gossip_window"`
	HistoryLength int   `json:"history_length"`
	Epochs        []int `json:"epochs"`
}

func New(cfg Config, opts ...Option) (*MessageCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	idFn := cfg.IDFn
	if idFn == nil {
		idFn = message.DefaultMsgID
	}
	mc := &MessageCache{
		msgs:    kv.NewStore(),
		history: newHistory(cfg.HistoryLength),
		peertx:  make(peerTx),
		gossip:  cfg.GossipWindow,
		msgID:   idFn,
		log:     zap.NewNop(),
		metrics: NoopMetrics{},
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc, nil
}

// MsgID derives the id the cache would store msg under.
func (mc *MessageCache) MsgID(msg *message.Message) (string, error) {
	if msg == nil {
		return "", message.ErrNilMessage
	}
	id, err := mc.msgID(msg)
	if err != nil {
		return "", fmt.Errorf("derive message id: %w", err)
	}
	return id, nil
}

// Put adds msg to the current epoch. Putting a message whose id is already
// cached is a no-op and keeps the original epoch position. If the id cannot
// be derived the error is returned and nothing is stored.
func (mc *MessageCache) Put(msg *message.Message) error {
	id, err := mc.MsgID(msg)
	if err != nil {
		mc.metrics.IDFailure()
		return err
	}

	mc.mu.Lock()
	added := mc.msgs.Put(id, msg)
	if added {
		mc.history.add(CacheEntry{ID: id, Topics: msg.Topics})
	}
	mc.mu.Unlock()

	if added {
		mc.metrics.MessageAdded()
	} else {
		mc.metrics.MessageDuplicate()
	}
	return nil
}

// Get returns the cached message for id, if it is still present.
func (mc *MessageCache) Get(id string) (*message.Message, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.msgs.Get(id)
}

// Has reports whether id is cached.
func (mc *MessageCache) Has(id string) bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.msgs.Has(id)
}

// GetForPeer returns the cached message for id and records that it is being
// served to p. The returned count includes this call, so the first request
// from a peer yields 1. An absent id returns (nil, 0, false) and records
// nothing.
func (mc *MessageCache) GetForPeer(id string, p message.PeerID) (*message.Message, int, bool) {
	mc.mu.Lock()
	m, ok := mc.msgs.Get(id)
	if !ok {
		mc.mu.Unlock()
		mc.metrics.PeerRequest(false)
		return nil, 0, false
	}
	n := mc.peertx.inc(id, p)
	mc.mu.Unlock()

	mc.metrics.PeerRequest(true)
	return m, n, true
}

// GetGossipIDs returns the ids of messages published to topic within the
// gossip window. Order is unspecified.
func (mc *MessageCache) GetGossipIDs(topic string) []string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var ids []string
	for i := 0; i < mc.gossip; i++ {
		for _, e := range mc.history.epoch(i) {
			if e.hasTopic(topic) {
				ids = append(ids, e.ID)
			}
		}
	}
	return ids
}

// Shift ages every epoch by one, evicting messages that fall out of the
// history along with their peer counters.
func (mc *MessageCache) Shift() {
	mc.mu.Lock()
	dropped := mc.history.rotate()
	for _, e := range dropped {
		mc.msgs.Delete(e.ID)
		mc.peertx.forget(e.ID)
	}
	size := mc.msgs.Len()
	mc.mu.Unlock()

	if len(dropped) > 0 {
		mc.log.Debug("evicted messages", zap.Int("count", len(dropped)), zap.Int("remaining", size))
	}
	mc.metrics.Evicted(len(dropped))
	mc.metrics.Shifted(size)
}

// Len returns the number of cached messages.
func (mc *MessageCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.msgs.Len()
}

func (mc *MessageCache) Stats() Stats {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return Stats{
		Messages:      mc.msgs.Len(),
		Bytes:         mc.msgs.Bytes(),
		TrackedIDs:    len(mc.peertx),
		GossipWindow:  mc.gossip,
		HistoryLength: mc.history.len(),
		Epochs:        mc.history.sizes(),
	}
}
