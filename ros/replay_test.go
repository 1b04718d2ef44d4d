package ros

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"
)

type capturePublisher struct {
	topics []string
}

func (p *capturePublisher) Publish(topic string, msg interface{}) {
	p.topics = append(p.topics, topic)
}

func detectionAt(stamp time.Time) RegionOfInterestWithCovariance {
	return RegionOfInterestWithCovariance{Header: Header{Stamp: stamp}}
}

func estimateAt(stamp time.Time) PointWithCovariance {
	return PointWithCovariance{Header: Header{Stamp: stamp}}
}

func TestMergeByStamp(t *testing.T) {
	base := time.Unix(100, 0)
	merged := mergeByStamp(
		"camera",
		[]RegionOfInterestWithCovariance{detectionAt(base), detectionAt(base.Add(2 * time.Second))},
		"estimate",
		[]PointWithCovariance{estimateAt(base.Add(time.Second)), estimateAt(base.Add(3 * time.Second))},
	)

	topics := make([]string, 0, len(merged))
	for _, m := range merged {
		topics = append(topics, m.Topic)
	}
	test.That(t, topics, test.ShouldResemble, []string{"camera", "estimate", "camera", "estimate"})
}

func TestReplay(t *testing.T) {
	base := time.Unix(100, 0)
	msgs := mergeByStamp(
		"camera",
		[]RegionOfInterestWithCovariance{detectionAt(base)},
		"estimate",
		[]PointWithCovariance{estimateAt(base.Add(time.Second))},
	)

	var pub capturePublisher
	err := Replay(context.Background(), &pub, msgs, ReplayOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pub.topics, test.ShouldResemble, []string{"camera", "estimate"})
}

func TestReplayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var pub capturePublisher
	msgs := []TimedMessage{{Topic: "camera", Msg: detectionAt(time.Unix(100, 0))}}
	err := Replay(ctx, &pub, msgs, ReplayOptions{})
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, pub.topics, test.ShouldHaveLength, 0)
}
