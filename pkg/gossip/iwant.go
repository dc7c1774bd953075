package gossip

import (
	"go.uber.org/zap"

	"github.com/ryandielhenn/gossipcache/pkg/message"
)

// DefaultMaxRetransmission is the gossipsub default for how many times a
// message is sent to the same peer in response to IWANT.
const DefaultMaxRetransmission = 3

// IWantHandler answers IWANT requests from the cache.
type IWantHandler struct {
	cache Cache
	max   int
	log   *zap.Logger
}

// NewIWantHandler builds a handler that serves each (message, peer) pair at
// most maxRetransmission times. Values below 1 select the default.
func NewIWantHandler(cache Cache, maxRetransmission int, log *zap.Logger) *IWantHandler {
	if maxRetransmission < 1 {
		maxRetransmission = DefaultMaxRetransmission
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IWantHandler{cache: cache, max: maxRetransmission, log: log}
}

// Handle returns the messages to send back to req.From, in request order.
// Unknown or evicted ids are skipped, as are ids already sent to this peer
// the maximum number of times. A repeated id counts as one send per repeat.
func (h *IWantHandler) Handle(req IWant) []*message.Message {
	var out []*message.Message
	for _, id := range req.IDs {
		m, count, ok := h.cache.GetForPeer(id, req.From)
		if !ok {
			continue
		}
		if count > h.max {
			h.log.Debug("peer exceeded retransmission limit", zap.Stringer("type", MsgIWant),
				zap.String("peer", string(req.From)), zap.String("id", id), zap.Int("count", count))
			continue
		}
		out = append(out, m)
	}
	return out
}
