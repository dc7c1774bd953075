package node

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ryandielhenn/gossipcache/internal/telemetry"
	"github.com/ryandielhenn/gossipcache/pkg/gossip"
	"github.com/ryandielhenn/gossipcache/pkg/mcache"
)

// Node exposes a message cache over HTTP for inspection and for injecting
// traffic during development.
type Node struct {
	cache *mcache.MessageCache
	iwant *gossip.IWantHandler
	addr  string
	log   *zap.Logger
}

func NewNode(cache *mcache.MessageCache, iwant *gossip.IWantHandler, addr string, log *zap.Logger) *Node {
	if log == nil {
		log = zap.NewNop()
	}
	return &Node{
		cache: cache,
		iwant: iwant,
		addr:  addr,
		log:   log,
	}
}

func (n *Node) Addr() string {
	return n.addr
}

// Routes registers every node endpoint on a new mux, instrumented per route.
func (n *Node) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", n.Healthz)
	mux.HandleFunc("GET /info", n.Info)
	mux.Handle("GET /metrics", telemetry.MetricsHandler())
	mux.Handle("POST /msg", telemetry.Instrument("publish", http.HandlerFunc(n.Publish)))
	mux.Handle("GET /msg/{id...}", telemetry.Instrument("get", http.HandlerFunc(n.Get)))
	mux.Handle("GET /gossip/{topic}", telemetry.Instrument("gossip", http.HandlerFunc(n.Gossip)))
	mux.Handle("POST /iwant", telemetry.Instrument("iwant", http.HandlerFunc(n.IWant)))
	mux.Handle("POST /shift", telemetry.Instrument("shift", http.HandlerFunc(n.Shift)))
	return mux
}
