package gossip

import "github.com/ryandielhenn/gossipcache/pkg/message"

// Control messages exchanged between peers. Encoding them is the transport's
// job; these are the decoded shapes the cache side works with.

type MsgType uint8

const (
	MsgIHave MsgType = iota
	MsgIWant
)

func (t MsgType) String() string {
	switch t {
	case MsgIHave:
		return "ihave"
	case MsgIWant:
		return "iwant"
	default:
		return "unknown"
	}
}

// IHave advertises ids of messages recently seen on a topic.
type IHave struct {
	Topic string
	IDs   []string
}

// IWant asks a peer for the full content of the listed ids.
type IWant struct {
	From message.PeerID
	IDs  []string
}
