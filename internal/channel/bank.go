package channel

// Bank is the fixed set of receiver channels.
type Bank struct {
	chans [NumChannels]*Channel
}

// NewBank creates every channel with its pin (negative = disabled) and loads
// the endpoints from store.
func NewBank(pins [NumChannels]int, store Store) *Bank {
	b := &Bank{}
	for i := range b.chans {
		b.chans[i] = New(ID(i), pins[i], store)
	}
	return b
}

// Channel returns the channel with the given id.
func (b *Bank) Channel(id ID) *Channel {
	return b.chans[id]
}

// Channels returns all channels in id order.
func (b *Bank) Channels() []*Channel {
	return b.chans[:]
}

// Poll propagates the latest captured pulse widths into the channel values.
//
// The widths of all channels are copied first in one tight pass, then each
// value is recomputed from its copy. The copy pass is the only point where
// the refresh loop touches data written by the edge handlers.
func (b *Bank) Poll() {
	for _, c := range b.chans {
		c.stage()
	}
	for _, c := range b.chans {
		c.update()
	}
}

// Reload re-reads every channel's endpoints from the store.
func (b *Bank) Reload() {
	for _, c := range b.chans {
		c.Reload()
		c.update()
	}
}
