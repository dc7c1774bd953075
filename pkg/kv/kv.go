package kv

import "github.com/ryandielhenn/gossipcache/pkg/message"

// Store maps message ids to full message content and tracks the bytes held.
// It is the only owner of payload bytes in the cache. Store is not safe for
// concurrent use; the owning cache serializes access.
type Store struct {
	data map[string]*message.Message
	used int
}

func NewStore() *Store {
	return &Store{
		data: make(map[string]*message.Message),
	}
}

// Put inserts msg under id. An existing entry is never overwritten; Put
// reports whether msg was inserted.
func (s *Store) Put(id string, msg *message.Message) bool {
	if _, ok := s.data[id]; ok {
		return false
	}
	s.data[id] = msg
	s.used += msg.Size()
	return true
}

func (s *Store) Get(id string) (*message.Message, bool) {
	m, ok := s.data[id]
	return m, ok
}

func (s *Store) Has(id string) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store) Delete(id string) bool {
	m, ok := s.data[id]
	if !ok {
		return false
	}
	delete(s.data, id)
	s.used -= m.Size()
	return true
}

func (s *Store) Len() int {
	return len(s.data)
}

// Bytes is the total size of all stored messages.
func (s *Store) Bytes() int {
	return s.used
}
