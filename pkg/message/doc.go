// Package message defines the pubsub message shape held by the message cache
// and the pluggable identifier strategies used to key it.
//
// Identifier derivation is injected into the cache as an IDFunc, so a
// deployment can key by sender+sequence number (DefaultMsgID) or by payload
// digest (ContentMsgID) without touching the cache itself.
package message
