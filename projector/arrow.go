package projector

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/applevision/visualizer/marker"
	"github.com/applevision/visualizer/ros"
	"github.com/applevision/visualizer/transform"
)

// EstimateArrow draws a line from the grabber to where the Kalman filter
// currently thinks the apple is.
type EstimateArrow struct {
	tf      transform.Provider
	sink    marker.Sink
	logger  golog.Logger
	clk     clock.Clock
	headers *HeaderSource

	estimateFrame string
	cameraFrame   string
	style         marker.Style
	onTFError     FailurePolicy
}

// EstimateArrowOptions overrides the defaults of an EstimateArrow projector.
type EstimateArrowOptions struct {
	EstimateFrame string
	CameraFrame   string
	Style         *marker.Style
	// OnTransformError defaults to FailDrop: the estimate frame only exists
	// once the filter has converged, so early lookups are expected to fail.
	OnTransformError *FailurePolicy
	Clock            clock.Clock
}

// NewEstimateArrow returns a projector publishing to the given sink.
func NewEstimateArrow(tf transform.Provider, sink marker.Sink, logger golog.Logger, opts EstimateArrowOptions) *EstimateArrow {
	p := &EstimateArrow{
		tf:            tf,
		sink:          sink,
		logger:        logger,
		clk:           opts.Clock,
		estimateFrame: DefaultEstimateFrame,
		cameraFrame:   DefaultCameraFrame,
		style:         DefaultArrowStyle,
		onTFError:     FailDrop,
	}
	if p.clk == nil {
		p.clk = clock.New()
	}
	if opts.EstimateFrame != "" {
		p.estimateFrame = opts.EstimateFrame
	}
	if opts.CameraFrame != "" {
		p.cameraFrame = opts.CameraFrame
	}
	if opts.Style != nil {
		p.style = *opts.Style
	}
	if opts.OnTransformError != nil {
		p.onTFError = *opts.OnTransformError
	}
	p.headers = NewHeaderSource(p.cameraFrame, p.clk)
	return p
}

// HandleEstimate looks up the estimated apple position relative to the grabber
// and publishes a single-segment arrow marker spanning it.
func (p *EstimateArrow) HandleEstimate(ctx context.Context, est ros.PointWithCovariance) error {
	tf, err := p.tf.Transform(ctx, p.estimateFrame, p.cameraFrame, p.clk.Now())
	if err != nil {
		if p.onTFError == FailDrop {
			p.logger.Debugw("dropping estimate, transform unavailable", "error", err)
			return nil
		}
		return errors.Wrapf(err, "unable to look up %s in %s", p.estimateFrame, p.cameraFrame)
	}

	p.logger.Debugf("estimated apple range %.3fm", tf.Translation.Norm())

	arrow := marker.NewLineList(
		p.headers.Next(),
		marker.Key{Namespace: ArrowNamespace},
		p.style,
		[]r3.Vector{{}, tf.Translation},
	)
	return p.sink.Publish(ctx, arrow)
}
