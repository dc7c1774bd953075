package mcache

// CacheEntry references a stored message from one epoch of history. It never
// holds payload bytes.
type CacheEntry struct {
	ID     string
	Topics []string
}

func (e CacheEntry) hasTopic(topic string) bool {
	for _, t := range e.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// history is a fixed-capacity ring of epochs. Logical index 0 is the current
// epoch and maps to slots[head]; logical index i maps to slots[(head+i)%n].
type history struct {
	slots [][]CacheEntry
	head  int
}

func newHistory(length int) *history {
	return &history{slots: make([][]CacheEntry, length)}
}

func (h *history) len() int {
	return len(h.slots)
}

func (h *history) epoch(i int) []CacheEntry {
	return h.slots[(h.head+i)%len(h.slots)]
}

func (h *history) add(e CacheEntry) {
	h.slots[h.head] = append(h.slots[h.head], e)
}

// rotate drops the oldest epoch and opens a new, empty epoch 0. The dropped
// entries are returned so the caller can evict what they reference.
func (h *history) rotate() []CacheEntry {
	n := len(h.slots)
	oldest := (h.head + n - 1) % n
	dropped := h.slots[oldest]
	h.slots[oldest] = nil
	h.head = oldest
	return dropped
}

// sizes returns the entry count of every epoch, newest first.
func (h *history) sizes() []int {
	out := make([]int, len(h.slots))
	for i := range out {
		out[i] = len(h.epoch(i))
	}
	return out
}
