package node

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ryandielhenn/gossipcache/pkg/gossip"
	"github.com/ryandielhenn/gossipcache/pkg/mcache"
	"github.com/ryandielhenn/gossipcache/pkg/message"
)

// maxPayload bounds a published message body.
const maxPayload = 1 << 20

// Healthz returns 200 OK to indicate the Node is alive.
func (n *Node) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Info writes a JSON payload with the process ID, current time, and cache stats.
func (n *Node) Info(w http.ResponseWriter, _ *http.Request) {
	type resp struct {
		PID   int          `json:"pid"`
		Now   time.Time    `json:"now"`
		Addr  string       `json:"addr"`
		Cache mcache.Stats `json:"cache"`
	}
	writeJSON(w, http.StatusOK, resp{PID: os.Getpid(), Now: time.Now(), Addr: n.addr, Cache: n.cache.Stats()})
}

// Publish caches the request body as a message.
//
//	POST /msg?from=<peer>&seqno=<hex>&topic=<t>[&topic=<t>...]
//
// Replies 201 with the id for a new message and 200 for one already cached.
func (n *Node) Publish(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	seqno, err := hex.DecodeString(q.Get("seqno"))
	if err != nil {
		http.Error(w, "invalid seqno", http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxPayload))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg := &message.Message{
		From:   message.PeerID(q.Get("from")),
		Seqno:  seqno,
		Data:   data,
		Topics: q["topic"],
	}

	id, err := n.cache.MsgID(msg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := http.StatusCreated
	if n.cache.Has(id) {
		status = http.StatusOK
	}
	if err := n.cache.Put(msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.log.Debug("published", zap.String("id", id), zap.Strings("topics", msg.Topics), zap.Int("status", status))
	writeJSON(w, status, map[string]string{"id": id})
}

// Get returns the raw payload of a cached message. With ?peer= the lookup is
// counted against that peer and the count is returned in X-Peer-Count.
func (n *Node) Get(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	var (
		m  *message.Message
		ok bool
	)
	if peer := req.URL.Query().Get("peer"); peer != "" {
		var count int
		m, count, ok = n.cache.GetForPeer(id, message.PeerID(peer))
		if ok {
			w.Header().Set("X-Peer-Count", strconv.Itoa(count))
		}
	} else {
		m, ok = n.cache.Get(id)
	}
	if !ok {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(m.Data)
}

// Gossip lists the ids that would be advertised for a topic this heartbeat.
func (n *Node) Gossip(w http.ResponseWriter, req *http.Request) {
	ids := n.cache.GetGossipIDs(req.PathValue("topic"))
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// IWant answers a JSON IWANT request the way a peer would be answered.
func (n *Node) IWant(w http.ResponseWriter, req *http.Request) {
	var body struct {
		From string   `json:"from"`
		IDs  []string `json:"ids"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxPayload)).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.From == "" {
		http.Error(w, "from is required", http.StatusBadRequest)
		return
	}

	msgs := n.iwant.Handle(gossip.IWant{From: message.PeerID(body.From), IDs: body.IDs})
	out := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		id, _ := n.cache.MsgID(m)
		out = append(out, toWire(id, m))
	}
	writeJSON(w, http.StatusOK, out)
}

// Shift forces a heartbeat rotation of the cache history.
func (n *Node) Shift(w http.ResponseWriter, _ *http.Request) {
	n.cache.Shift()
	w.WriteHeader(http.StatusNoContent)
}
