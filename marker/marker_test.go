package marker

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/applevision/visualizer/ros"
	"github.com/applevision/visualizer/transform"
)

var testStyle = Style{Color: Color{R: 1, A: 0.5}, Scale: 0.01}

func TestNewLineList(t *testing.T) {
	hdr := ros.Header{Seq: 4, FrameID: "fake_grabber"}
	pts := []r3.Vector{{}, {X: 1, Y: 1, Z: 2}}
	m := NewLineList(hdr, Key{Namespace: "applevision_cam_fov"}, testStyle, pts)

	test.That(t, m.Type, test.ShouldEqual, TypeLineList)
	test.That(t, m.Key(), test.ShouldResemble, Key{Namespace: "applevision_cam_fov"})
	test.That(t, m.Header.FrameID, test.ShouldEqual, "fake_grabber")
	test.That(t, m.Scale, test.ShouldEqual, 0.01)

	segs := m.Segments()
	test.That(t, segs, test.ShouldHaveLength, 1)
	test.That(t, segs[0][1], test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 2})
}

func TestWorldPointsWithPose(t *testing.T) {
	m := NewLineList(ros.Header{}, Key{}, testStyle, []r3.Vector{{X: 1}, {Y: 1}})
	pose := transform.Identity()
	pose.Translation = r3.Vector{Z: 2}
	m.Pose = pose

	pts := m.WorldPoints()
	test.That(t, pts[0], test.ShouldResemble, r3.Vector{X: 1, Z: 2})
	test.That(t, pts[1], test.ShouldResemble, r3.Vector{Y: 1, Z: 2})
}

func TestSceneReplacement(t *testing.T) {
	scene := NewScene()
	ctx := context.Background()

	first := NewLineList(ros.Header{Seq: 1}, Key{Namespace: "applevision_arrow"}, testStyle, nil)
	second := NewLineList(ros.Header{Seq: 2}, Key{Namespace: "applevision_arrow"}, testStyle, nil)
	other := NewLineList(ros.Header{Seq: 3}, Key{Namespace: "applevision_cam_box"}, testStyle, nil)

	test.That(t, scene.Publish(ctx, first), test.ShouldBeNil)
	test.That(t, scene.Publish(ctx, second), test.ShouldBeNil)
	test.That(t, scene.Publish(ctx, other), test.ShouldBeNil)

	test.That(t, scene.Len(), test.ShouldEqual, 2)
	for _, m := range scene.Snapshot() {
		if m.Namespace == "applevision_arrow" {
			test.That(t, m.Header.Seq, test.ShouldEqual, uint32(2))
		}
	}
}

func TestTee(t *testing.T) {
	sceneA := NewScene()
	sceneB := NewScene()
	sink := Tee(sceneA, sceneB)

	m := NewLineList(ros.Header{}, Key{Namespace: "applevision_cam_fov"}, testStyle, nil)
	test.That(t, sink.Publish(context.Background(), m), test.ShouldBeNil)
	test.That(t, sceneA.Len(), test.ShouldEqual, 1)
	test.That(t, sceneB.Len(), test.ShouldEqual, 1)
}

func TestRenderTopDown(t *testing.T) {
	cone := NewLineList(ros.Header{FrameID: "fake_grabber"}, Key{Namespace: "applevision_cam_fov"}, testStyle, []r3.Vector{
		{}, {X: 0.5, Y: 0.3, Z: 1},
		{}, {X: -0.5, Y: 0.3, Z: 1},
	})
	img := RenderTopDown([]Marker{cone}, 320, 240)
	test.That(t, img, test.ShouldNotBeNil)
	bounds := img.Bounds()
	test.That(t, bounds.Dx(), test.ShouldEqual, 320)
	test.That(t, bounds.Dy(), test.ShouldEqual, 240)
}
