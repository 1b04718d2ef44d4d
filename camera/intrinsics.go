// Package camera holds the fixed optics of the apple camera and the math that
// projects pixel coordinates onto a plane at a given depth along the optical axis.
package camera

import (
	"math"

	"github.com/golang/geo/r3"
)

// Intrinsics describes a pinhole camera: pixel resolution, physical sensor size,
// and focal length. Sensor dimensions and focal length are in meters.
type Intrinsics struct {
	Width        int
	Height       int
	SensorWidth  float64
	SensorHeight float64
	Focal        float64
}

// AppleCamera is the camera mounted on the grabber.
// focal length ~ 11mm, sensor 5449umx3072um. The sensor natively captures
// 672x380 but we run it at 640x360, so the usable sensor area shrinks by the
// crop ratio.
var AppleCamera = Intrinsics{
	Width:        640,
	Height:       360,
	SensorWidth:  5449e-6 * (640.0 / 672.0),
	SensorHeight: 3072e-6 * (360.0 / 380.0),
	Focal:        11e-3,
}

// FOV returns the horizontal and vertical field of view angles in radians.
// https://www.edmundoptics.com/knowledge-center/application-notes/imaging/understanding-focal-length-and-field-of-view/
func (i Intrinsics) FOV() (across, updown float64) {
	across = 2 * math.Atan(i.SensorWidth/(2*i.Focal))
	updown = 2 * math.Atan(i.SensorHeight/(2*i.Focal))
	return across, updown
}

// PlaneHalfExtents returns the half width and half height, in meters, of the
// viewing frustum cross-section at the given distance along the optical axis.
func (i Intrinsics) PlaneHalfExtents(dist float64) (x, y float64) {
	across, updown := i.FOV()
	return dist * math.Tan(across/2), dist * math.Tan(updown/2)
}

// PlaneProject maps a pixel coordinate to a point, in meters, on the frustum
// cross-section at the given distance. The image center maps to the origin and
// the returned point has Z=0; the caller decides where the plane sits.
func (i Intrinsics) PlaneProject(px, py, dist float64) r3.Vector {
	halfX, halfY := i.PlaneHalfExtents(dist)
	return r3.Vector{
		X: (px - float64(i.Width)/2) / float64(i.Width) * halfX * 2,
		Y: (py - float64(i.Height)/2) / float64(i.Height) * halfY * 2,
	}
}
