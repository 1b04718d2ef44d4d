package transform

import (
	"context"
	"time"

	goutils "go.viam.com/utils"
)

// Provider answers transform lookups between named frames.
type Provider interface {
	// Transform returns the transform that maps points expressed in the from
	// frame into the to frame, valid at the given time. A zero time means the
	// latest available transform, with no waiting for a closer match.
	Transform(ctx context.Context, from, to string, at time.Time) (Transform, error)
}

// waitForRetryInterval is how often WaitFor re-polls the provider.
const waitForRetryInterval = 100 * time.Millisecond

// WaitFor blocks until the provider can answer a lookup between the two frames,
// or the context is done. Subscribers should not start consuming messages until
// their transform chain resolves.
func WaitFor(ctx context.Context, p Provider, from, to string) error {
	for {
		if _, err := p.Transform(ctx, from, to, time.Time{}); err == nil {
			return nil
		}
		if !goutils.SelectContextOrWait(ctx, waitForRetryInterval) {
			return ctx.Err()
		}
	}
}
