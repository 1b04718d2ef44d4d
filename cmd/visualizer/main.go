// Package main contains a command to replay recorded applevision perception
// topics and publish debug-drawing markers for each message.
package main

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/applevision/visualizer/config"
	"github.com/applevision/visualizer/marker"
	"github.com/applevision/visualizer/msgbus"
	"github.com/applevision/visualizer/projector"
	"github.com/applevision/visualizer/ros"
	"github.com/applevision/visualizer/transform"
)

var logger = golog.NewDevelopmentLogger("applevision_visualizer")

const (
	subscriberQueueSize = 10

	snapshotWidth  = 800
	snapshotHeight = 600
)

func main() {
	utils.ContextualMainQuit(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	BagFile    string `flag:"0,required,usage=rosbag with recorded applevision topics"`
	ConfigFile string `flag:"config,usage=JSON5 config file"`
	Snapshot   string `flag:"snapshot,usage=write a top-down PNG of the final scene to this path"`
	Pace       bool   `flag:"pace,usage=replay with the recorded message timing"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg := config.Default()
	if argsParsed.ConfigFile != "" {
		var err error
		if cfg, err = config.Read(argsParsed.ConfigFile); err != nil {
			return err
		}
	}

	return runVisualizer(ctx, cfg, argsParsed)
}

func runVisualizer(ctx context.Context, cfg config.Config, args Arguments) (err error) {
	provider := transform.NewStaticProvider()
	for _, tf := range cfg.Transforms {
		provider.SetTransform(tf.Stamped())
	}

	// nothing subscribes until the camera's transform chain resolves; the
	// estimate chain may legitimately appear later
	logger.Infow("waiting for transform chain", "from", cfg.Frames.Target, "to", cfg.Frames.Camera)
	if err := transform.WaitFor(ctx, provider, cfg.Frames.Target, cfg.Frames.Camera); err != nil {
		return err
	}

	rb, err := ros.ReadBag(args.BagFile)
	if err != nil {
		return err
	}
	msgs, err := ros.BagMessages(rb, cfg.Topics.Detections, cfg.Topics.Estimates)
	if err != nil {
		return err
	}

	bus := msgbus.New()
	defer func() {
		err = multierr.Combine(err, bus.Close())
	}()

	scene := marker.NewScene()
	sink := marker.Tee(
		scene,
		marker.LoggingSink(logger),
		busSink(bus, cfg.Topics.Markers),
	)

	camFov := projector.NewCamFov(provider, sink, logger, cfg.CamFovOptions())
	arrow := projector.NewEstimateArrow(provider, sink, logger, cfg.EstimateArrowOptions())

	detections := make(chan interface{}, subscriberQueueSize)
	estimates := make(chan interface{}, subscriberQueueSize)
	if err := bus.Subscribe(cfg.Topics.Detections, "camviz", detections); err != nil {
		return err
	}
	if err := bus.Subscribe(cfg.Topics.Estimates, "kalviz", estimates); err != nil {
		return err
	}

	var workers sync.WaitGroup
	workers.Add(2)
	utils.PanicCapturingGo(func() {
		defer workers.Done()
		dispatchDetections(ctx, detections, camFov)
	})
	utils.PanicCapturingGo(func() {
		defer workers.Done()
		dispatchEstimates(ctx, estimates, arrow)
	})

	logger.Infow("replaying bag", "file", args.BagFile, "messages", len(msgs), "paced", args.Pace)

	replayErr := ros.Replay(ctx, bus, msgs, ros.ReplayOptions{Pace: args.Pace})

	if err := bus.Unsubscribe(cfg.Topics.Detections, "camviz"); err != nil {
		return multierr.Combine(replayErr, err)
	}
	if err := bus.Unsubscribe(cfg.Topics.Estimates, "kalviz"); err != nil {
		return multierr.Combine(replayErr, err)
	}
	close(detections)
	close(estimates)
	workers.Wait()
	if replayErr != nil {
		return replayErr
	}

	stats := bus.Stats()
	logger.Infow("replay complete",
		"published", stats.Published,
		"sent", stats.Sent,
		"dropped", stats.Dropped,
		"markers", scene.Len(),
	)

	if args.Snapshot != "" {
		if err := marker.WritePNG(args.Snapshot, scene.Snapshot(), snapshotWidth, snapshotHeight); err != nil {
			return err
		}
		logger.Infow("wrote scene snapshot", "path", args.Snapshot)
	}
	return nil
}

// busSink forwards published markers onto the marker topic for any other
// subscriber, the way the ROS node shared one visualization topic.
func busSink(bus *msgbus.Bus, topic string) marker.Sink {
	return marker.SinkFunc(func(ctx context.Context, m marker.Marker) error {
		bus.Publish(topic, m)
		return nil
	})
}

func dispatchDetections(ctx context.Context, ch <-chan interface{}, p *projector.CamFov) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			det, ok := msg.(ros.RegionOfInterestWithCovariance)
			if !ok {
				logger.Warnw("unexpected message on detection topic", "message", msg)
				continue
			}
			if err := p.HandleDetection(ctx, det); err != nil {
				// dispatcher disposition for propagated errors: log and move on
				logger.Errorw("failed to project detection", "error", err)
			}
		}
	}
}

func dispatchEstimates(ctx context.Context, ch <-chan interface{}, p *projector.EstimateArrow) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			est, ok := msg.(ros.PointWithCovariance)
			if !ok {
				logger.Warnw("unexpected message on estimate topic", "message", msg)
				continue
			}
			if err := p.HandleEstimate(ctx, est); err != nil {
				logger.Errorw("failed to project estimate", "error", err)
			}
		}
	}
}
