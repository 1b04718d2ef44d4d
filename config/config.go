// Package config reads the visualizer's JSON5 configuration: frame names,
// topic names, camera optics, marker styles, and the static transform set.
package config

import (
	"io"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"

	"github.com/applevision/visualizer/camera"
	"github.com/applevision/visualizer/marker"
	"github.com/applevision/visualizer/projector"
	"github.com/applevision/visualizer/transform"
)

// Frames names the coordinate frames the projectors work between.
type Frames struct {
	Camera     string `json:"camera"`
	CameraLens string `json:"camera_lens"`
	Target     string `json:"target"`
	Estimate   string `json:"estimate"`
}

// Topics names the bus topics the visualizer subscribes and publishes to.
type Topics struct {
	Detections string `json:"detections"`
	Estimates  string `json:"estimates"`
	Markers    string `json:"markers"`
}

// Camera overrides the built-in apple camera optics.
type Camera struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	SensorWidth  float64 `json:"sensor_width"`
	SensorHeight float64 `json:"sensor_height"`
	Focal        float64 `json:"focal"`
}

// Intrinsics converts to the camera package representation.
func (c Camera) Intrinsics() camera.Intrinsics {
	return camera.Intrinsics{
		Width:        c.Width,
		Height:       c.Height,
		SensorWidth:  c.SensorWidth,
		SensorHeight: c.SensorHeight,
		Focal:        c.Focal,
	}
}

// Style configures one marker's color and line width.
type Style struct {
	R     float64 `json:"r"`
	G     float64 `json:"g"`
	B     float64 `json:"b"`
	A     float64 `json:"a"`
	Scale float64 `json:"scale"`
}

// MarkerStyle converts to the marker package representation.
func (s Style) MarkerStyle() marker.Style {
	return marker.Style{Color: marker.Color{R: s.R, G: s.G, B: s.B, A: s.A}, Scale: s.Scale}
}

// Transform is one static edge in the frame graph. Rotation is a quaternion in
// W, X, Y, Z order; all zeros means identity.
type Transform struct {
	Parent      string     `json:"parent"`
	Child       string     `json:"child"`
	Translation [3]float64 `json:"translation"`
	Rotation    [4]float64 `json:"rotation"`
}

// Stamped converts to the transform package representation.
func (t Transform) Stamped() transform.Stamped {
	rot := quat.Number{Real: t.Rotation[0], Imag: t.Rotation[1], Jmag: t.Rotation[2], Kmag: t.Rotation[3]}
	if rot == (quat.Number{}) {
		rot = quat.Number{Real: 1}
	}
	return transform.Stamped{
		Transform: transform.Transform{
			Translation: r3.Vector{X: t.Translation[0], Y: t.Translation[1], Z: t.Translation[2]},
			Rotation:    rot,
		},
		Parent: t.Parent,
		Child:  t.Child,
	}
}

// Config is the whole visualizer configuration.
type Config struct {
	Frames     Frames      `json:"frames"`
	Topics     Topics      `json:"topics"`
	Camera     *Camera     `json:"camera"`
	ConeStyle  *Style      `json:"cone_style"`
	BoxStyle   *Style      `json:"box_style"`
	ArrowStyle *Style      `json:"arrow_style"`
	Transforms []Transform `json:"transforms"`

	// DropArrowOnTransformError keeps the estimate arrow quiet while the
	// filter's frame is still missing. Defaults to true.
	DropArrowOnTransformError *bool `json:"drop_arrow_on_transform_error"`
}

// Default returns the configuration of the recorded robot.
func Default() Config {
	var cfg Config
	cfg.ensureDefaults()
	return cfg
}

// Read loads and validates a JSON5 config file.
func Read(path string) (Config, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to open config file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	cfg, err := FromReader(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to parse config file %s", path)
	}
	return cfg, nil
}

// FromReader parses and validates a JSON5 config.
func FromReader(r io.Reader) (Config, error) {
	var cfg Config
	if err := json5.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Ensure(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Ensure fills in defaults and validates the result.
func (c *Config) Ensure() error {
	c.ensureDefaults()

	for name, style := range map[string]*Style{
		"cone_style":  c.ConeStyle,
		"box_style":   c.BoxStyle,
		"arrow_style": c.ArrowStyle,
	} {
		if style == nil {
			continue
		}
		if style.Scale <= 0 {
			return errors.Errorf("%s: scale must be positive", name)
		}
		for _, ch := range []float64{style.R, style.G, style.B, style.A} {
			if ch < 0 || ch > 1 {
				return errors.Errorf("%s: color channels must be in [0, 1]", name)
			}
		}
	}

	if c.Camera != nil {
		cam := *c.Camera
		if cam.Width <= 0 || cam.Height <= 0 {
			return errors.New("camera: resolution must be positive")
		}
		if cam.SensorWidth <= 0 || cam.SensorHeight <= 0 || cam.Focal <= 0 {
			return errors.New("camera: sensor dimensions and focal length must be positive")
		}
	}

	for i, tf := range c.Transforms {
		if tf.Parent == "" || tf.Child == "" {
			return errors.Errorf("transforms[%d]: parent and child frames are required", i)
		}
		if tf.Parent == tf.Child {
			return errors.Errorf("transforms[%d]: parent and child must differ", i)
		}
		norm := math.Sqrt(tf.Rotation[0]*tf.Rotation[0] + tf.Rotation[1]*tf.Rotation[1] +
			tf.Rotation[2]*tf.Rotation[2] + tf.Rotation[3]*tf.Rotation[3])
		if norm != 0 && math.Abs(norm-1) > 1e-6 {
			return errors.Errorf("transforms[%d]: rotation quaternion must be unit length", i)
		}
	}

	return nil
}

func (c *Config) ensureDefaults() {
	if c.Frames.Camera == "" {
		c.Frames.Camera = projector.DefaultCameraFrame
	}
	if c.Frames.CameraLens == "" {
		c.Frames.CameraLens = projector.DefaultLensFrame
	}
	if c.Frames.Target == "" {
		c.Frames.Target = projector.DefaultTargetFrame
	}
	if c.Frames.Estimate == "" {
		c.Frames.Estimate = projector.DefaultEstimateFrame
	}
	if c.Topics.Detections == "" {
		c.Topics.Detections = "applevision/apple_camera"
	}
	if c.Topics.Estimates == "" {
		c.Topics.Estimates = "applevision/est_apple_pos"
	}
	if c.Topics.Markers == "" {
		c.Topics.Markers = "visualization_marker"
	}
}

// CamFovOptions assembles projector options from the config.
func (c Config) CamFovOptions() projector.CamFovOptions {
	opts := projector.CamFovOptions{
		TargetFrame: c.Frames.Target,
		CameraFrame: c.Frames.Camera,
		LensFrame:   c.Frames.CameraLens,
	}
	if c.Camera != nil {
		intrinsics := c.Camera.Intrinsics()
		opts.Intrinsics = &intrinsics
	}
	if c.ConeStyle != nil {
		style := c.ConeStyle.MarkerStyle()
		opts.ConeStyle = &style
	}
	if c.BoxStyle != nil {
		style := c.BoxStyle.MarkerStyle()
		opts.BoxStyle = &style
	}
	return opts
}

// EstimateArrowOptions assembles projector options from the config.
func (c Config) EstimateArrowOptions() projector.EstimateArrowOptions {
	opts := projector.EstimateArrowOptions{
		EstimateFrame: c.Frames.Estimate,
		CameraFrame:   c.Frames.Camera,
	}
	if c.ArrowStyle != nil {
		style := c.ArrowStyle.MarkerStyle()
		opts.Style = &style
	}
	if c.DropArrowOnTransformError != nil && !*c.DropArrowOnTransformError {
		policy := projector.FailPropagate
		opts.OnTransformError = &policy
	}
	return opts
}
