package gossip

import "context"

// Advertiser sends IHAVE advertisements to peers. Implementations pick the
// recipients and encode the message; the heartbeat only decides what to say.
type Advertiser interface {
	Advertise(ctx context.Context, ihave IHave) error
}

// AdvertiserFunc adapts a function to the Advertiser interface.
type AdvertiserFunc func(ctx context.Context, ihave IHave) error

func (f AdvertiserFunc) Advertise(ctx context.Context, ihave IHave) error {
	return f(ctx, ihave)
}
