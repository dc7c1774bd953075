// Package gossip drives a message cache from the gossip protocol side. It
// provides the heartbeat that advertises recent message ids (IHAVE) and ages
// the cache each tick, and a handler that answers IWANT requests while
// capping how often the same message is sent to the same peer.
//
// Typical usage:
//
//	hb, _ := gossip.NewHeartbeat(cache, adv, gossip.HeartbeatConfig{Interval: time.Second, Topics: topics})
//	hb.Start(ctx)
//	defer hb.Stop()
//
// Moving bytes over the network is left to the Advertiser implementation.
package gossip
