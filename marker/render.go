package marker

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// RenderTopDown draws the markers projected onto the X/Z plane (a top-down view
// of the camera looking along +Z) and returns the image. The camera origin is
// always in frame.
func RenderTopDown(markers []Marker, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	minX, maxX := 0.0, 0.0
	minZ, maxZ := 0.0, 0.0
	for _, m := range markers {
		for _, seg := range m.Segments() {
			for _, p := range seg {
				minX = math.Min(minX, p.X)
				maxX = math.Max(maxX, p.X)
				minZ = math.Min(minZ, p.Z)
				maxZ = math.Max(maxZ, p.Z)
			}
		}
	}

	const pad = 0.1
	spanX := math.Max(maxX-minX, 0.1)
	spanZ := math.Max(maxZ-minZ, 0.1)
	minX -= spanX * pad
	minZ -= spanZ * pad
	spanX *= 1 + 2*pad
	spanZ *= 1 + 2*pad

	scale := math.Min(float64(width)/spanX, float64(height)/spanZ)
	toPx := func(x, z float64) (float64, float64) {
		// +Z up the image
		return (x - minX) * scale, float64(height) - (z-minZ)*scale
	}

	for _, m := range markers {
		c := m.Color
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetLineWidth(math.Max(1, m.Scale*scale))
		for _, seg := range m.Segments() {
			x0, y0 := toPx(seg[0].X, seg[0].Z)
			x1, y1 := toPx(seg[1].X, seg[1].Z)
			dc.DrawLine(x0, y0, x1, y1)
		}
		dc.Stroke()
	}

	// camera origin crosshair
	ox, oy := toPx(0, 0)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(ox-4, oy, ox+4, oy)
	dc.DrawLine(ox, oy-4, ox, oy+4)
	dc.Stroke()

	return dc.Image()
}

// WritePNG renders the markers top-down and writes the result to path.
func WritePNG(path string, markers []Marker, width, height int) error {
	if err := gg.SavePNG(path, RenderTopDown(markers, width, height)); err != nil {
		return errors.Wrapf(err, "unable to write marker snapshot to %s", path)
	}
	return nil
}
