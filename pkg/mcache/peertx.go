package mcache

import "github.com/ryandielhenn/gossipcache/pkg/message"

// peerTx counts, per message id, how many times each peer was served that
// message. Entries live exactly as long as the id is in the store.
type peerTx map[string]map[message.PeerID]int

// inc bumps the counter for (id, p) and returns the new value.
func (tx peerTx) inc(id string, p message.PeerID) int {
	counts, ok := tx[id]
	if !ok {
		counts = make(map[message.PeerID]int)
		tx[id] = counts
	}
	counts[p]++
	return counts[p]
}

func (tx peerTx) count(id string, p message.PeerID) int {
	return tx[id][p]
}

func (tx peerTx) forget(id string) {
	delete(tx, id)
}
