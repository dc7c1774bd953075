// Package config loads the gossipcache server configuration from a YAML file
// with ${VAR} expansion, then applies environment overrides (SELF_ADDR,
// GOSSIP_WINDOW, HISTORY_LENGTH, HEARTBEAT_INTERVAL, MAX_RETRANSMISSION,
// ID_STRATEGY, LOG_LEVEL).
package config
