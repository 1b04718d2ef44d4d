package projector

import (
	"context"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/applevision/visualizer/camera"
	"github.com/applevision/visualizer/marker"
	"github.com/applevision/visualizer/ros"
	"github.com/applevision/visualizer/testutils/inject"
	"github.com/applevision/visualizer/transform"
)

func transformAtDistance(dist float64) *inject.TransformProvider {
	return &inject.TransformProvider{
		TransformFunc: func(ctx context.Context, from, to string, at time.Time) (transform.Transform, error) {
			tf := transform.Identity()
			tf.Translation = r3.Vector{Z: dist}
			return tf, nil
		},
	}
}

func captureSink(published *[]marker.Marker) *inject.MarkerSink {
	return &inject.MarkerSink{
		PublishFunc: func(ctx context.Context, m marker.Marker) error {
			*published = append(*published, m)
			return nil
		},
	}
}

func fullFrameDetection() ros.RegionOfInterestWithCovariance {
	return ros.RegionOfInterestWithCovariance{X: 0, Y: 0, W: 640, H: 360}
}

func vecAlmostEqual(t *testing.T, got, want r3.Vector) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z)
}

func TestCamFovPublishes(t *testing.T) {
	const dist = 1.5
	var published []marker.Marker
	p := NewCamFov(transformAtDistance(dist), captureSink(&published), golog.NewTestLogger(t), CamFovOptions{})

	err := p.HandleDetection(context.Background(), fullFrameDetection())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, published, test.ShouldHaveLength, 2)

	box, cone := published[0], published[1]
	test.That(t, box.Namespace, test.ShouldEqual, CamBoxNamespace)
	test.That(t, box.Header.FrameID, test.ShouldEqual, DefaultLensFrame)
	test.That(t, box.Pose.Translation.Z, test.ShouldAlmostEqual, dist)
	test.That(t, cone.Namespace, test.ShouldEqual, CamFovNamespace)
	test.That(t, cone.Header.FrameID, test.ShouldEqual, DefaultCameraFrame)
	test.That(t, cone.Points, test.ShouldHaveLength, 16)
	test.That(t, box.Points, test.ShouldHaveLength, 8)
}

func TestCamFovConeGeometry(t *testing.T) {
	const dist = 2.0
	p := NewCamFov(transformAtDistance(dist), marker.NewScene(), golog.NewTestLogger(t), CamFovOptions{})

	_, cone := p.Project(dist, fullFrameDetection())
	halfX, halfY := camera.AppleCamera.PlaneHalfExtents(dist)

	// 4 apex edges then the far-plane rectangle
	vecAlmostEqual(t, cone.Points[0], r3.Vector{})
	vecAlmostEqual(t, cone.Points[1], r3.Vector{X: halfX, Y: halfY, Z: dist})
	vecAlmostEqual(t, cone.Points[3], r3.Vector{X: -halfX, Y: halfY, Z: dist})
	vecAlmostEqual(t, cone.Points[5], r3.Vector{X: -halfX, Y: -halfY, Z: dist})
	vecAlmostEqual(t, cone.Points[7], r3.Vector{X: halfX, Y: -halfY, Z: dist})
	for _, seg := range cone.Segments()[4:] {
		test.That(t, seg[0].Z, test.ShouldAlmostEqual, dist)
		test.That(t, seg[1].Z, test.ShouldAlmostEqual, dist)
	}
}

func TestCamFovFullFrameBoxMatchesCone(t *testing.T) {
	const dist = 1.0
	p := NewCamFov(transformAtDistance(dist), marker.NewScene(), golog.NewTestLogger(t), CamFovOptions{})

	box, _ := p.Project(dist, fullFrameDetection())
	halfX, halfY := camera.AppleCamera.PlaneHalfExtents(dist)

	// a detection covering the whole frame projects onto the cone's far plane
	pts := box.WorldPoints()
	vecAlmostEqual(t, pts[0], r3.Vector{X: -halfX, Y: -halfY, Z: dist})
	vecAlmostEqual(t, pts[3], r3.Vector{X: halfX, Y: halfY, Z: dist})
	vecAlmostEqual(t, pts[5], r3.Vector{X: -halfX, Y: halfY, Z: dist})
}

func TestCamFovDegenerateDetection(t *testing.T) {
	const dist = 1.0
	p := NewCamFov(transformAtDistance(dist), marker.NewScene(), golog.NewTestLogger(t), CamFovOptions{})

	// a zero-size detection at the image center collapses to the optical axis
	box, _ := p.Project(dist, ros.RegionOfInterestWithCovariance{X: 320, Y: 180})
	for _, pt := range box.Points {
		vecAlmostEqual(t, pt, r3.Vector{})
	}
}

func TestCamFovTransformFailure(t *testing.T) {
	lookupErr := errors.New("no transform at requested time")
	failing := &inject.TransformProvider{
		TransformFunc: func(ctx context.Context, from, to string, at time.Time) (transform.Transform, error) {
			return transform.Transform{}, lookupErr
		},
	}

	var published []marker.Marker
	p := NewCamFov(failing, captureSink(&published), golog.NewTestLogger(t), CamFovOptions{})
	err := p.HandleDetection(context.Background(), fullFrameDetection())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, lookupErr), test.ShouldBeTrue)
	test.That(t, published, test.ShouldHaveLength, 0)

	// with FailDrop configured the same failure is swallowed
	drop := FailDrop
	p = NewCamFov(failing, captureSink(&published), golog.NewTestLogger(t), CamFovOptions{OnTransformError: &drop})
	err = p.HandleDetection(context.Background(), fullFrameDetection())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, published, test.ShouldHaveLength, 0)
}

func TestCamFovSinkFailure(t *testing.T) {
	sinkErr := errors.New("sink full")
	failingSink := &inject.MarkerSink{
		PublishFunc: func(ctx context.Context, m marker.Marker) error {
			return sinkErr
		},
	}
	p := NewCamFov(transformAtDistance(1), failingSink, golog.NewTestLogger(t), CamFovOptions{})
	err := p.HandleDetection(context.Background(), fullFrameDetection())
	test.That(t, errors.Is(err, sinkErr), test.ShouldBeTrue)
}
