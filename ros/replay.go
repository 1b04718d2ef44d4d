package ros

import (
	"context"
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/gobag/rosbag"
	goutils "go.viam.com/utils"
)

// Publisher is anywhere replayed messages can be delivered, typically a topic bus.
type Publisher interface {
	Publish(topic string, msg interface{})
}

// TimedMessage is one recorded message ready for replay.
type TimedMessage struct {
	Topic string
	Msg   interface{}
}

// BagMessages extracts the detection and estimate streams from a bag and merges
// them into one sequence ordered by header stamp.
func BagMessages(rb *rosbag.RosBag, detectionTopic, estimateTopic string) ([]TimedMessage, error) {
	detections, err := Detections(rb, detectionTopic)
	if err != nil {
		return nil, err
	}
	estimates, err := Estimates(rb, estimateTopic)
	if err != nil {
		return nil, err
	}

	return mergeByStamp(detectionTopic, detections, estimateTopic, estimates), nil
}

func mergeByStamp(
	detectionTopic string,
	detections []RegionOfInterestWithCovariance,
	estimateTopic string,
	estimates []PointWithCovariance,
) []TimedMessage {
	all := make([]TimedMessage, 0, len(detections)+len(estimates))
	for _, d := range detections {
		all = append(all, TimedMessage{Topic: detectionTopic, Msg: d})
	}
	for _, e := range estimates {
		all = append(all, TimedMessage{Topic: estimateTopic, Msg: e})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return stampOf(all[i].Msg).Before(stampOf(all[j].Msg))
	})
	return all
}

// ReplayOptions controls replay pacing.
type ReplayOptions struct {
	// Pace sleeps between messages to reproduce the recorded timing. When
	// false, messages are delivered back to back.
	Pace bool
	// Clock defaults to the wall clock; tests substitute a mock.
	Clock clock.Clock
}

// Replay publishes the messages in order, optionally paced by the recorded
// inter-message gaps. It stops early if the context is done.
func Replay(ctx context.Context, pub Publisher, msgs []TimedMessage, opts ReplayOptions) error {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	for i, m := range msgs {
		if opts.Pace && i > 0 {
			gap := stampOf(m.Msg).Sub(stampOf(msgs[i-1].Msg))
			if gap > 0 {
				timer := clk.Timer(gap)
				if !goutils.SelectContextOrWaitChan(ctx, timer.C) {
					timer.Stop()
					return ctx.Err()
				}
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pub.Publish(m.Topic, m.Msg)
	}
	return nil
}

func stampOf(msg interface{}) time.Time {
	switch m := msg.(type) {
	case RegionOfInterestWithCovariance:
		return m.Header.Stamp
	case PointWithCovariance:
		return m.Header.Stamp
	}
	return time.Time{}
}
