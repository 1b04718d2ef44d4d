package ros

import (
	"encoding/json"
	"io"
	"os"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	defer goutils.UncheckedErrorFunc(f.Close)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}

	rb := rosbag.NewRosBag()
	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag")
	}

	return rb, nil
}

// Detections returns all camera detections recorded on the given topic.
func Detections(rb *rosbag.RosBag, topic string) ([]RegionOfInterestWithCovariance, error) {
	raw, err := messagesForTopic(rb, topic)
	if err != nil {
		return nil, err
	}

	out := make([]RegionOfInterestWithCovariance, 0, len(raw))
	for _, data := range raw {
		var msg regionOfInterestMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, errors.Wrapf(err, "malformed detection on topic %s", topic)
		}
		out = append(out, msg.message())
	}
	return out, nil
}

// Estimates returns all position estimates recorded on the given topic.
func Estimates(rb *rosbag.RosBag, topic string) ([]PointWithCovariance, error) {
	raw, err := messagesForTopic(rb, topic)
	if err != nil {
		return nil, err
	}

	out := make([]PointWithCovariance, 0, len(raw))
	for _, data := range raw {
		var msg pointMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, errors.Wrapf(err, "malformed estimate on topic %s", topic)
		}
		out = append(out, msg.message())
	}
	return out, nil
}

// messagesForTopic returns the raw JSON for every message on a topic in the bag.
func messagesForTopic(rb *rosbag.RosBag, topic string) ([][]byte, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return t == topic },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	msgs := rb.TopicsAsJSON[topic]
	if msgs == nil {
		return nil, errors.Errorf("no messages for topic %s", topic)
	}

	var all [][]byte
	for {
		data, err := msgs.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, data)
	}
	return all, nil
}
