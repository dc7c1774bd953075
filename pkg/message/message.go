package message

import (
	"encoding/hex"
	"errors"
	"slices"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrNilMessage    = errors.New("message: nil message")
	ErrMissingSender = errors.New("message: missing sender")
	ErrMissingSeqno  = errors.New("message: missing sequence number")
	ErrEmptyPayload  = errors.New("message: empty payload")
)

// PeerID identifies a remote peer. The cache treats it as an opaque key.
type PeerID string

// Message is a published payload together with the topics it was sent to.
// A message must not be mutated once it has been handed to the cache.
type Message struct {
	From   PeerID
	Seqno  []byte
	Data   []byte
	Topics []string
}

// HasTopic reports whether the message was published to topic.
func (m *Message) HasTopic(topic string) bool {
	return slices.Contains(m.Topics, topic)
}

// Size is the number of bytes the message holds in memory, excluding topics.
func (m *Message) Size() int {
	return len(m.Data) + len(m.Seqno) + len(m.From)
}

// IDFunc derives a stable identifier for a message. Implementations must be
// deterministic: the same message always yields the same id.
type IDFunc func(*Message) (string, error)

// DefaultMsgID identifies a message by its sender and sequence number.
func DefaultMsgID(m *Message) (string, error) {
	if m == nil {
		return "", ErrNilMessage
	}
	if m.From == "" {
		return "", ErrMissingSender
	}
	if len(m.Seqno) == 0 {
		return "", ErrMissingSeqno
	}
	return string(m.From) + "/" + hex.EncodeToString(m.Seqno), nil
}

// ContentMsgID identifies a message by the BLAKE2b-256 digest of its payload,
// so identical payloads from different senders collapse into one id.
func ContentMsgID(m *Message) (string, error) {
	if m == nil {
		return "", ErrNilMessage
	}
	if len(m.Data) == 0 {
		return "", ErrEmptyPayload
	}
	sum := blake2b.Sum256(m.Data)
	return hex.EncodeToString(sum[:]), nil
}
