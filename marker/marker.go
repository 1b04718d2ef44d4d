// Package marker models the drawable primitives published for the 3D viewer
// and the sinks that consume them.
package marker

import (
	"github.com/golang/geo/r3"

	"github.com/applevision/visualizer/ros"
	"github.com/applevision/visualizer/transform"
)

// Type selects the viewer primitive. Values match visualization_msgs/Marker.
type Type int

// Marker types used by the visualizer.
const (
	TypeArrow     Type = 0
	TypeLineStrip Type = 4
	TypeLineList  Type = 5
	TypePoints    Type = 8
)

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// Style bundles the color and line thickness of a marker.
type Style struct {
	Color Color
	// Scale is the line width in meters.
	Scale float64
}

// Key identifies a marker to the viewer; re-publishing with the same key
// replaces the previous marker.
type Key struct {
	Namespace string
	ID        int
}

// Marker is a named, timestamped drawable. All points are interpreted in the
// frame named by the header, offset by the marker pose.
type Marker struct {
	Header    ros.Header
	Namespace string
	ID        int
	Type      Type
	Points    []r3.Vector
	Color     Color
	Scale     float64
	Pose      transform.Transform
}

// NewLineList returns a line-list marker; points are consumed pairwise as
// independent segments.
func NewLineList(header ros.Header, key Key, style Style, points []r3.Vector) Marker {
	return Marker{
		Header:    header,
		Namespace: key.Namespace,
		ID:        key.ID,
		Type:      TypeLineList,
		Points:    points,
		Color:     style.Color,
		Scale:     style.Scale,
		Pose:      transform.Identity(),
	}
}

// Key returns the viewer replacement key.
func (m Marker) Key() Key {
	return Key{Namespace: m.Namespace, ID: m.ID}
}

// WorldPoints returns the marker points with the marker pose applied, expressed
// in the header frame.
func (m Marker) WorldPoints() []r3.Vector {
	out := make([]r3.Vector, 0, len(m.Points))
	for _, p := range m.Points {
		out = append(out, m.Pose.TransformPoint(p))
	}
	return out
}

// Segments pairs up the points of a line-list marker. A trailing unpaired point
// is dropped.
func (m Marker) Segments() [][2]r3.Vector {
	pts := m.WorldPoints()
	segs := make([][2]r3.Vector, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		segs = append(segs, [2]r3.Vector{pts[i], pts[i+1]})
	}
	return segs
}
