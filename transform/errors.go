package transform

import "github.com/pkg/errors"

// NewUnknownFrameError returns an error indicating that a frame name is not in
// the frame graph.
func NewUnknownFrameError(name string) error {
	return errors.Errorf("frame %q not found", name)
}

// NewDisconnectedFramesError returns an error indicating that no chain of
// transforms links the two frames.
func NewDisconnectedFramesError(from, to string) error {
	return errors.Errorf("no transform chain from frame %q to frame %q", from, to)
}
