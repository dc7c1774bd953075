package node

import (
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/ryandielhenn/gossipcache/pkg/message"
)

// NormalizeHostPort cuts the http:// https:// prefixes from the input address
// and adds a default port
func NormalizeHostPort(addr, defPort string) string {
	if rest, ok := strings.CutPrefix(addr, "http://"); ok {
		addr = rest
	} else if rest, ok := strings.CutPrefix(addr, "https://"); ok {
		addr = rest
	}

	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}

	return addr + ":" + defPort
}

// wireMessage is the JSON form of a message. Data is base64 (encoding/json's
// []byte encoding); Seqno is hex to match DefaultMsgID.
type wireMessage struct {
	ID     string   `json:"id,omitempty"`
	From   string   `json:"from"`
	Seqno  string   `json:"seqno"`
	Data   []byte   `json:"data"`
	Topics []string `json:"topics"`
}

func toWire(id string, m *message.Message) wireMessage {
	return wireMessage{
		ID:     id,
		From:   string(m.From),
		Seqno:  hex.EncodeToString(m.Seqno),
		Data:   m.Data,
		Topics: m.Topics,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
