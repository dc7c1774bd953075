// Package mcache implements the gossip message cache: a generational,
// sliding-window store that deduplicates received messages, lists recently
// seen ids per topic for IHAVE advertisements, and serves full messages to
// peers answering IWANT requests while counting retransmissions per peer.
//
// Age is tracked by position in a ring of epochs rather than by timestamps.
// Each heartbeat calls Shift, which drops the oldest epoch and evicts every
// message it referenced in one step.
//
// Typical usage:
//
//	mc, _ := mcache.New(mcache.DefaultConfig())
//	_ = mc.Put(msg)
//	ids := mc.GetGossipIDs("blocks")
//	mc.Shift()
package mcache
