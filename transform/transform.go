// Package transform models rigid transforms between named coordinate frames and
// the provider that looks them up.
package transform

import (
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a rigid 3D transform: rotate, then translate. Rotation is a unit
// quaternion.
type Transform struct {
	Translation r3.Vector
	Rotation    quat.Number
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{Rotation: quat.Number{Real: 1}}
}

// RotatePoint applies only the rotation part to a point.
func (t Transform) RotatePoint(p r3.Vector) r3.Vector {
	return rotate(t.Rotation, p)
}

// TransformPoint maps a point expressed in the child frame into the parent frame.
func (t Transform) TransformPoint(p r3.Vector) r3.Vector {
	return rotate(t.Rotation, p).Add(t.Translation)
}

// Compose returns the transform equivalent to applying other first, then t.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		Translation: rotate(t.Rotation, other.Translation).Add(t.Translation),
		Rotation:    quat.Mul(t.Rotation, other.Rotation),
	}
}

// Invert returns the transform mapping the parent frame back into the child frame.
func (t Transform) Invert() Transform {
	conj := quat.Conj(t.Rotation)
	return Transform{
		Translation: rotate(conj, t.Translation).Mul(-1),
		Rotation:    conj,
	}
}

func rotate(q quat.Number, p r3.Vector) r3.Vector {
	pq := quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}
	rq := quat.Mul(quat.Mul(q, pq), quat.Conj(q))
	return r3.Vector{X: rq.Imag, Y: rq.Jmag, Z: rq.Kmag}
}

// Stamped is a transform between two named frames, valid at a point in time.
// The transform maps points expressed in Child into Parent.
type Stamped struct {
	Transform
	Parent string
	Child  string
	Stamp  time.Time
}
