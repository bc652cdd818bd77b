package monitor

import (
	"context"
	"time"
)

// Poller drives a dashboard's refresh loop: it fetches the snapshot once
// immediately, then once per interval, handing each snapshot to OnSnapshot.
// Fetch errors go to OnError (if set) and the loop continues; the next
// successful snapshot overwrites whatever the view shows.
type Poller struct {
	client   *Client
	interval time.Duration

	// OnSnapshot receives every successfully fetched snapshot. Required.
	OnSnapshot func(*Snapshot)

	// OnError receives transient fetch failures. Optional.
	OnError func(error)
}

// NewPoller creates a poller with the given refresh interval. Intervals below
// one second are raised to one second to keep the service pollable by many
// viewers.
func NewPoller(client *Client, interval time.Duration) *Poller {
	if interval < time.Second {
		interval = time.Second
	}
	return &Poller{client: client, interval: interval}
}

// Run polls until ctx is cancelled and returns ctx.Err(). An in-flight fetch
// is cancelled together with ctx.
func (p *Poller) Run(ctx context.Context, testID uint) error {
	p.poll(ctx, testID)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx, testID)
		}
	}
}

func (p *Poller) poll(ctx context.Context, testID uint) {
	snapshot, err := p.client.GetSnapshot(ctx, testID)
	if err != nil {
		if ctx.Err() == nil && p.OnError != nil {
			p.OnError(err)
		}
		return
	}
	if p.OnSnapshot != nil {
		p.OnSnapshot(snapshot)
	}
}
