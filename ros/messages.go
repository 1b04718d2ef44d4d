// Package ros declares the applevision ROS message shapes and reads them back
// out of recorded bags.
package ros

import (
	"time"

	"github.com/golang/geo/r3"
)

// Header is a std_msgs/Header: sequence number, stamp, and the frame the
// message is expressed in.
type Header struct {
	Seq     uint32
	Stamp   time.Time
	FrameID string
}

// RegionOfInterestWithCovariance is one camera detection: an axis-aligned
// rectangle in pixel coordinates with its covariance.
type RegionOfInterestWithCovariance struct {
	Header     Header
	X          float64
	Y          float64
	W          float64
	H          float64
	Covariance []float64
}

// PointWithCovariance is one Kalman filter output: the estimated apple
// position with its covariance.
type PointWithCovariance struct {
	Header     Header
	Point      r3.Vector
	Covariance []float64
}

type stampMessage struct {
	Secs  int64 `json:"secs"`
	Nsecs int64 `json:"nsecs"`
}

func (s stampMessage) Time() time.Time {
	return time.Unix(s.Secs, s.Nsecs)
}

type headerMessage struct {
	Seq     uint32       `json:"seq"`
	Stamp   stampMessage `json:"stamp"`
	FrameID string       `json:"frame_id"`
}

func (h headerMessage) header() Header {
	return Header{Seq: h.Seq, Stamp: h.Stamp.Time(), FrameID: h.FrameID}
}

type regionOfInterestMessage struct {
	Meta struct {
		Secs  int64
		Nsecs int64
	}
	Data struct {
		Header     headerMessage `json:"header"`
		X          float64       `json:"x"`
		Y          float64       `json:"y"`
		W          float64       `json:"w"`
		H          float64       `json:"h"`
		Covariance []float64     `json:"covariance"`
	}
}

func (m regionOfInterestMessage) message() RegionOfInterestWithCovariance {
	return RegionOfInterestWithCovariance{
		Header:     m.Data.Header.header(),
		X:          m.Data.X,
		Y:          m.Data.Y,
		W:          m.Data.W,
		H:          m.Data.H,
		Covariance: m.Data.Covariance,
	}
}

type pointMessage struct {
	Meta struct {
		Secs  int64
		Nsecs int64
	}
	Data struct {
		Header headerMessage `json:"header"`
		Point  struct {
			X float64
			Y float64
			Z float64
		} `json:"point"`
		Covariance []float64 `json:"covariance"`
	}
}

func (m pointMessage) message() PointWithCovariance {
	return PointWithCovariance{
		Header:     m.Data.Header.header(),
		Point:      r3.Vector{X: m.Data.Point.X, Y: m.Data.Point.Y, Z: m.Data.Point.Z},
		Covariance: m.Data.Covariance,
	}
}
