package mcache

// Metrics receives cache events. Implementations must be safe for concurrent
// use and must not call back into the cache.
type Metrics interface {
	MessageAdded()
	MessageDuplicate()
	IDFailure()
	// Evicted reports the number of messages dropped by one Shift.
	Evicted(n int)
	// Shifted reports the number of messages held after a Shift.
	Shifted(size int)
	PeerRequest(hit bool)
}

// NoopMetrics discards every event.
type NoopMetrics struct{}

var _ Metrics = NoopMetrics{}

func (NoopMetrics) MessageAdded() {}
func (NoopMetrics) MessageDuplicate() {}
func (NoopMetrics) IDFailure() {}
func (NoopMetrics) Evicted(int) {}
func (NoopMetrics) Shifted(int) {}
func (NoopMetrics) PeerRequest(bool) {}
