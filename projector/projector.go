// Package projector turns inbound perception messages into drawable markers:
// the camera's viewing cone, the detection's projected bounding box, and an
// arrow to the estimated apple position.
package projector

import "github.com/applevision/visualizer/marker"

// FailurePolicy decides what a projector does when its transform lookup fails.
type FailurePolicy int

const (
	// FailPropagate returns the lookup error to the dispatcher.
	FailPropagate FailurePolicy = iota
	// FailDrop discards the message: nothing is published and no error is
	// returned. Useful while transform chains are still coming up.
	FailDrop
)

// Frame names and marker namespaces of the recorded robot configuration.
const (
	DefaultTargetFrame   = "fake_apple"
	DefaultCameraFrame   = "fake_grabber"
	DefaultLensFrame     = "fake_grabber_cam"
	DefaultEstimateFrame = "apple"

	CamFovNamespace = "applevision_cam_fov"
	CamBoxNamespace = "applevision_cam_box"
	ArrowNamespace  = "applevision_arrow"
)

// Default marker styles.
var (
	DefaultConeStyle  = marker.Style{Color: marker.Color{R: 1, A: 0.5}, Scale: 0.01}
	DefaultBoxStyle   = marker.Style{Color: marker.Color{G: 1, A: 0.5}, Scale: 0.005}
	DefaultArrowStyle = marker.Style{Color: marker.Color{G: 1, A: 0.5}, Scale: 0.005}
)
