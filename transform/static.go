package transform

import (
	"context"
	"sync"
	"time"
)

// StaticProvider is an in-memory Provider over a graph of fixed transforms.
// Lookups between indirectly connected frames compose and invert edges along
// the shortest chain. Static edges are valid at all times, so the lookup time
// is ignored.
type StaticProvider struct {
	mu sync.RWMutex
	// adjacency: adj[a][b] maps points in a into b
	adj map[string]map[string]Transform
}

// NewStaticProvider returns an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{adj: map[string]map[string]Transform{}}
}

// SetTransform adds or replaces the edge between the stamped transform's child
// and parent frames, in both directions.
func (p *StaticProvider) SetTransform(s Stamped) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setEdge(s.Child, s.Parent, s.Transform)
	p.setEdge(s.Parent, s.Child, s.Transform.Invert())
}

func (p *StaticProvider) setEdge(from, to string, tf Transform) {
	if p.adj[from] == nil {
		p.adj[from] = map[string]Transform{}
	}
	p.adj[from][to] = tf
}

// Transform implements Provider with a breadth-first search over the frame graph.
func (p *StaticProvider) Transform(ctx context.Context, from, to string, at time.Time) (Transform, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.adj[from]; !ok {
		return Transform{}, NewUnknownFrameError(from)
	}
	if _, ok := p.adj[to]; !ok {
		return Transform{}, NewUnknownFrameError(to)
	}
	if from == to {
		return Identity(), nil
	}

	// acc[f] maps points in the from frame into f
	acc := map[string]Transform{from: Identity()}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next, edge := range p.adj[cur] {
			if _, seen := acc[next]; seen {
				continue
			}
			acc[next] = edge.Compose(acc[cur])
			if next == to {
				return acc[next], nil
			}
			queue = append(queue, next)
		}
	}
	return Transform{}, NewDisconnectedFramesError(from, to)
}
