package marker

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
)

// Sink consumes published markers. Implementations decide where they go: a
// topic bus, a log, an in-memory scene.
type Sink interface {
	Publish(ctx context.Context, m Marker) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, m Marker) error

// Publish calls the wrapped function.
func (f SinkFunc) Publish(ctx context.Context, m Marker) error {
	return f(ctx, m)
}

// Scene is a Sink that keeps only the latest marker per key, mirroring the
// replacement semantics a viewer applies.
type Scene struct {
	mu      sync.Mutex
	markers map[Key]Marker
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{markers: map[Key]Marker{}}
}

// Publish stores the marker, replacing any previous marker with the same key.
func (s *Scene) Publish(ctx context.Context, m Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[m.Key()] = m
	return nil
}

// Len returns the number of distinct marker keys held.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

// Snapshot returns a copy of the current markers.
func (s *Scene) Snapshot() []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Marker, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, m)
	}
	return out
}

// Tee returns a Sink that publishes to each sink in order, stopping at the
// first error.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, m Marker) error {
		for _, s := range sinks {
			if err := s.Publish(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoggingSink returns a Sink that records each publish at debug level.
func LoggingSink(logger golog.Logger) Sink {
	return SinkFunc(func(ctx context.Context, m Marker) error {
		logger.Debugw("marker published",
			"ns", m.Namespace,
			"id", m.ID,
			"frame", m.Header.FrameID,
			"seq", m.Header.Seq,
			"points", len(m.Points),
		)
		return nil
	})
}
