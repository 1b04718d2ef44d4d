package projector

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/applevision/visualizer/camera"
	"github.com/applevision/visualizer/marker"
	"github.com/applevision/visualizer/ros"
	"github.com/applevision/visualizer/transform"
)

// CamFov draws the camera's viewing cone and the projected bounding box of
// each detection, both sized by the current camera-to-target distance.
type CamFov struct {
	tf      transform.Provider
	sink    marker.Sink
	logger  golog.Logger
	clk     clock.Clock
	headers *HeaderSource

	intrinsics  camera.Intrinsics
	targetFrame string
	cameraFrame string
	lensFrame   string
	coneStyle   marker.Style
	boxStyle    marker.Style
	onTFError   FailurePolicy
}

// CamFovOptions overrides the defaults of a CamFov projector. Zero fields keep
// the recorded robot configuration.
type CamFovOptions struct {
	Intrinsics  *camera.Intrinsics
	TargetFrame string
	CameraFrame string
	LensFrame   string
	ConeStyle   *marker.Style
	BoxStyle    *marker.Style
	// OnTransformError defaults to FailPropagate: a missing transform here
	// means the robot is misconfigured, not merely starting up.
	OnTransformError *FailurePolicy
	Clock            clock.Clock
}

// NewCamFov returns a projector publishing to the given sink.
func NewCamFov(tf transform.Provider, sink marker.Sink, logger golog.Logger, opts CamFovOptions) *CamFov {
	p := &CamFov{
		tf:          tf,
		sink:        sink,
		logger:      logger,
		clk:         opts.Clock,
		intrinsics:  camera.AppleCamera,
		targetFrame: DefaultTargetFrame,
		cameraFrame: DefaultCameraFrame,
		lensFrame:   DefaultLensFrame,
		coneStyle:   DefaultConeStyle,
		boxStyle:    DefaultBoxStyle,
		onTFError:   FailPropagate,
	}
	if p.clk == nil {
		p.clk = clock.New()
	}
	if opts.Intrinsics != nil {
		p.intrinsics = *opts.Intrinsics
	}
	if opts.TargetFrame != "" {
		p.targetFrame = opts.TargetFrame
	}
	if opts.CameraFrame != "" {
		p.cameraFrame = opts.CameraFrame
	}
	if opts.LensFrame != "" {
		p.lensFrame = opts.LensFrame
	}
	if opts.ConeStyle != nil {
		p.coneStyle = *opts.ConeStyle
	}
	if opts.BoxStyle != nil {
		p.boxStyle = *opts.BoxStyle
	}
	if opts.OnTransformError != nil {
		p.onTFError = *opts.OnTransformError
	}
	p.headers = NewHeaderSource(p.cameraFrame, p.clk)
	return p
}

// HandleDetection looks up the current camera-to-target distance and publishes
// the bounding box and FOV cone markers, in that order.
func (p *CamFov) HandleDetection(ctx context.Context, det ros.RegionOfInterestWithCovariance) error {
	tf, err := p.tf.Transform(ctx, p.targetFrame, p.cameraFrame, p.clk.Now())
	if err != nil {
		if p.onTFError == FailDrop {
			p.logger.Debugw("dropping detection, transform unavailable", "error", err)
			return nil
		}
		return errors.Wrapf(err, "unable to look up %s in %s", p.targetFrame, p.cameraFrame)
	}

	box, cone := p.Project(tf.Translation.Z, det)
	if err := p.sink.Publish(ctx, box); err != nil {
		return err
	}
	return p.sink.Publish(ctx, cone)
}

// Project computes the bounding box and FOV cone markers for a detection with
// the target at the given distance along the optical axis. Pure; exposed so the
// geometry can be checked without a transform provider.
func (p *CamFov) Project(dist float64, det ros.RegionOfInterestWithCovariance) (box, cone marker.Marker) {
	halfX, halfY := p.intrinsics.PlaneHalfExtents(dist)

	apex := r3.Vector{}
	corners := [4]r3.Vector{
		{X: halfX, Y: halfY, Z: dist},
		{X: -halfX, Y: halfY, Z: dist},
		{X: -halfX, Y: -halfY, Z: dist},
		{X: halfX, Y: -halfY, Z: dist},
	}
	conePts := []r3.Vector{
		// edges from the apex to each corner
		apex, corners[0],
		apex, corners[1],
		apex, corners[2],
		apex, corners[3],
		// rectangle at the end of the cone
		corners[0], corners[1],
		corners[1], corners[2],
		corners[2], corners[3],
		corners[3], corners[0],
	}
	cone = marker.NewLineList(
		p.headers.NextIn(p.cameraFrame),
		marker.Key{Namespace: CamFovNamespace},
		p.coneStyle,
		conePts,
	)

	topLeft := p.intrinsics.PlaneProject(det.X, det.Y, dist)
	bottomRight := p.intrinsics.PlaneProject(det.X+det.W, det.Y+det.H, dist)
	boxPts := []r3.Vector{
		topLeft, {X: bottomRight.X, Y: topLeft.Y},
		{X: bottomRight.X, Y: topLeft.Y}, bottomRight,
		bottomRight, {X: topLeft.X, Y: bottomRight.Y},
		{X: topLeft.X, Y: bottomRight.Y}, topLeft,
	}
	box = marker.NewLineList(
		p.headers.NextIn(p.lensFrame),
		marker.Key{Namespace: CamBoxNamespace},
		p.boxStyle,
		boxPts,
	)
	// the box plane sits at the cone's far plane
	box.Pose.Translation = r3.Vector{Z: dist}

	return box, cone
}
