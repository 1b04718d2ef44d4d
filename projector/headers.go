package projector

import (
	"math"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/applevision/visualizer/ros"
)

// HeaderSource stamps outgoing markers with the current time and a
// monotonically increasing sequence number. The counter wraps to 0 after
// reaching the maximum uint32 value.
type HeaderSource struct {
	frameID string
	clk     clock.Clock

	mu  sync.Mutex
	seq uint32
}

// NewHeaderSource returns a header source labeling headers with the given
// frame. A nil clock means the wall clock.
func NewHeaderSource(frameID string, clk clock.Clock) *HeaderSource {
	if clk == nil {
		clk = clock.New()
	}
	return &HeaderSource{frameID: frameID, clk: clk}
}

// Next returns a fresh header in the source's default frame.
func (s *HeaderSource) Next() ros.Header {
	return s.NextIn(s.frameID)
}

// NextIn returns a fresh header in the given frame, advancing the shared
// sequence counter.
func (s *HeaderSource) NextIn(frameID string) ros.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	header := ros.Header{Seq: s.seq, Stamp: s.clk.Now(), FrameID: frameID}
	if s.seq >= math.MaxUint32 {
		s.seq = 0
	} else {
		s.seq++
	}
	return header
}
