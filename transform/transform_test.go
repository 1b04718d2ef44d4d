package transform

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// quarter turn about +Z
func zQuarterTurn() quat.Number {
	return quat.Number{Real: math.Cos(math.Pi / 4), Kmag: math.Sin(math.Pi / 4)}
}

func vecAlmostEqual(t *testing.T, got, want r3.Vector) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z)
}

func TestTransformPoint(t *testing.T) {
	tf := Transform{
		Translation: r3.Vector{X: 1, Y: 2, Z: 3},
		Rotation:    zQuarterTurn(),
	}
	// +X rotates onto +Y, then translates
	vecAlmostEqual(t, tf.TransformPoint(r3.Vector{X: 1}), r3.Vector{X: 1, Y: 3, Z: 3})
	vecAlmostEqual(t, tf.RotatePoint(r3.Vector{X: 1}), r3.Vector{Y: 1})
}

func TestIdentity(t *testing.T) {
	p := r3.Vector{X: 0.3, Y: -1.2, Z: 4}
	vecAlmostEqual(t, Identity().TransformPoint(p), p)
}

func TestInvertRoundTrip(t *testing.T) {
	tf := Transform{
		Translation: r3.Vector{X: -0.5, Y: 0.25, Z: 2},
		Rotation:    zQuarterTurn(),
	}
	p := r3.Vector{X: 1, Y: 1, Z: 1}
	vecAlmostEqual(t, tf.Invert().TransformPoint(tf.TransformPoint(p)), p)
	vecAlmostEqual(t, tf.Compose(tf.Invert()).TransformPoint(p), p)
}

func TestCompose(t *testing.T) {
	a := Transform{Translation: r3.Vector{X: 1}, Rotation: quat.Number{Real: 1}}
	b := Transform{Translation: r3.Vector{Y: 2}, Rotation: zQuarterTurn()}

	p := r3.Vector{X: 1}
	// composing must equal applying b, then a
	vecAlmostEqual(t, a.Compose(b).TransformPoint(p), a.TransformPoint(b.TransformPoint(p)))
}
