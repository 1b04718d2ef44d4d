// Package inject provides injectable implementations of the visualizer's
// capability interfaces so the projection math can be tested without any live
// middleware.
package inject

import (
	"context"
	"time"

	"github.com/applevision/visualizer/marker"
	"github.com/applevision/visualizer/transform"
)

// TransformProvider is an injected transform provider.
type TransformProvider struct {
	transform.Provider
	TransformFunc func(ctx context.Context, from, to string, at time.Time) (transform.Transform, error)
}

// Transform calls the injected Transform or the real version.
func (p *TransformProvider) Transform(ctx context.Context, from, to string, at time.Time) (transform.Transform, error) {
	if p.TransformFunc == nil {
		return p.Provider.Transform(ctx, from, to, at)
	}
	return p.TransformFunc(ctx, from, to, at)
}

// MarkerSink is an injected marker sink.
type MarkerSink struct {
	marker.Sink
	PublishFunc func(ctx context.Context, m marker.Marker) error
}

// Publish calls the injected Publish or the real version.
func (s *MarkerSink) Publish(ctx context.Context, m marker.Marker) error {
	if s.PublishFunc == nil {
		return s.Sink.Publish(ctx, m)
	}
	return s.PublishFunc(ctx, m)
}
