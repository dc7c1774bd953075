package gossip

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ryandielhenn/gossipcache/pkg/mcache"
	"github.com/ryandielhenn/gossipcache/pkg/message"
)

var _ Cache = (*mcache.MessageCache)(nil)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newCache(t *testing.T, gossip, history int) *mcache.MessageCache {
	t.Helper()
	mc, err := mcache.New(mcache.Config{
		GossipWindow:  gossip,
		HistoryLength: history,
		IDFn:          message.ContentMsgID,
	})
	require.NoError(t, err)
	return mc
}

func put(t *testing.T, mc *mcache.MessageCache, data string, topics ...string) string {
	t.Helper()
	m := &message.Message{From: "src", Seqno: []byte{1}, Data: []byte(data), Topics: topics}
	require.NoError(t, mc.Put(m))
	id, err := mc.MsgID(m)
	require.NoError(t, err)
	return id
}

type recorder struct {
	mu   sync.Mutex
	sent []IHave
	err  error
}

func (r *recorder) Advertise(_ context.Context, ihave IHave) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, ihave)
	return r.err
}

func (r *recorder) snapshot() []IHave {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.sent)
}

func TestNewHeartbeatValidation(t *testing.T) {
	mc := newCache(t, 1, 2)

	_, err := NewHeartbeat(nil, nil, HeartbeatConfig{Interval: time.Second})
	require.ErrorIs(t, err, ErrNoCache)

	_, err = NewHeartbeat(mc, nil, HeartbeatConfig{})
	require.ErrorIs(t, err, ErrBadInterval)
}

func TestTickAdvertisesThenShifts(t *testing.T) {
	mc := newCache(t, 1, 2)
	rec := &recorder{}
	hb, err := NewHeartbeat(mc, rec, HeartbeatConfig{
		Interval: time.Hour,
		Topics:   func() []string { return []string{"t1", "t2", "empty"} },
	})
	require.NoError(t, err)

	a := put(t, mc, "a", "t1")
	b := put(t, mc, "b", "t1", "t2")

	hb.Tick(context.Background())

	sent := rec.snapshot()
	require.Len(t, sent, 2, "topics without ids are not advertised")
	require.Equal(t, "t1", sent[0].Topic)
	require.ElementsMatch(t, []string{a, b}, sent[0].IDs)
	require.Equal(t, IHave{Topic: "t2", IDs: []string{b}}, sent[1])

	// shifted out of the one-epoch window, still retained
	require.Empty(t, mc.GetGossipIDs("t1"))
	require.True(t, mc.Has(a))

	hb.Tick(context.Background())
	require.False(t, mc.Has(a))
	require.Len(t, rec.snapshot(), 2)
	require.EqualValues(t, 2, hb.Ticks())
}

func TestTickShiftsDespiteAdvertiseError(t *testing.T) {
	mc := newCache(t, 1, 1)
	rec := &recorder{err: errors.New("boom")}
	hb, err := NewHeartbeat(mc, rec, HeartbeatConfig{
		Interval: time.Hour,
		Topics:   func() []string { return []string{"t"} },
	})
	require.NoError(t, err)

	id := put(t, mc, "x", "t")
	hb.Tick(context.Background())

	require.Len(t, rec.snapshot(), 1)
	require.False(t, mc.Has(id))
}

func TestTickWithoutAdvertiser(t *testing.T) {
	mc := newCache(t, 1, 1)
	hb, err := NewHeartbeat(mc, nil, HeartbeatConfig{Interval: time.Hour})
	require.NoError(t, err)

	id := put(t, mc, "x", "t")
	hb.Tick(context.Background())
	require.False(t, mc.Has(id))
}

func TestHeartbeatLoop(t *testing.T) {
	mc := newCache(t, 3, 5)
	rec := &recorder{}
	hb, err := NewHeartbeat(mc, rec, HeartbeatConfig{
		Interval: 5 * time.Millisecond,
		Topics:   func() []string { return []string{"t"} },
	})
	require.NoError(t, err)

	put(t, mc, "x", "t")

	require.NoError(t, hb.Start(context.Background()))
	require.ErrorIs(t, hb.Start(context.Background()), ErrAlreadyStarted)

	require.Eventually(t, func() bool { return hb.Ticks() >= 5 }, 2*time.Second, time.Millisecond)
	hb.Stop()
	hb.Stop()

	require.Zero(t, mc.Len(), "message must age out after history length ticks")
	// advertised during the first three ticks only
	require.Len(t, rec.snapshot(), 3)

	// restartable after Stop
	require.NoError(t, hb.Start(context.Background()))
	hb.Stop()
}

func TestHeartbeatStopsOnContextCancel(t *testing.T) {
	mc := newCache(t, 1, 1)
	hb, err := NewHeartbeat(mc, nil, HeartbeatConfig{Interval: time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, hb.Start(ctx))
	cancel()
	hb.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	mc := newCache(t, 1, 1)
	hb, err := NewHeartbeat(mc, nil, HeartbeatConfig{Interval: time.Second})
	require.NoError(t, err)
	hb.Stop()
}
