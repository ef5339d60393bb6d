// Package treemap maps the 3D position of every light on a string wound
// around a conical tree, by photographing each light individually from a set
// of fixed cameras and reconstructing positions with the led_map engine.
package treemap

import (
	"context"
	"image"
	"time"

	"go.viam.com/rdk/logging"

	ledmap "github.com/lightbough/treemap/led_map"
)

// LightController switches individual lights on the string. Implementations
// wrap whatever control protocol the string speaks; the mapping pipeline only
// ever needs one light on at a time.
type LightController interface {
	// SetLight turns a single light on or off.
	SetLight(ctx context.Context, index int, on bool) error
	// AllOff turns the entire string off.
	AllOff(ctx context.Context) error
	// NumLights reports how many lights the string has.
	NumLights() int
}

// FrameSource captures a still frame from one of the fixed cameras.
type FrameSource interface {
	Capture(ctx context.Context, cameraIndex int) (image.Image, error)
}

// BlobResult is one candidate light location found in a frame.
type BlobResult struct {
	X          float64
	Y          float64
	Brightness float64
	Area       float64
}

// BlobDetector finds the brightest blob in a frame. The second return is
// false when no candidate stands out, which is a normal outcome for lights
// facing away from the camera.
type BlobDetector interface {
	DetectBlob(img image.Image) (BlobResult, bool)
}

// Rig holds the capture hardware, calibration, and per-run state for a
// mapping session.
type Rig struct {
	logger logging.Logger

	lights   LightController
	frames   FrameSource
	detector BlobDetector

	cameras []ledmap.CameraPose
	cone    ledmap.ConeShape

	// SettleDelay is how long to wait after switching a light before
	// photographing it, covering controller latency and auto-exposure.
	SettleDelay time.Duration

	mapper *ledmap.Mapper

	lastResult *ledmap.MapResult
}

// NewRig assembles a Rig from its collaborators and calibration. The cone
// shape is validated here so a bad calibration fails before any capture work.
func NewRig(
	logger logging.Logger,
	lights LightController,
	frames FrameSource,
	detector BlobDetector,
	cameras []ledmap.CameraPose,
	cone ledmap.ConeShape,
	cfg *ledmap.Config,
) (*Rig, error) {
	validated, err := ledmap.NewConeShape(cone.BaseRadius, cone.TopRadius, cone.Height)
	if err != nil {
		return nil, err
	}

	return &Rig{
		logger:      logger,
		lights:      lights,
		frames:      frames,
		detector:    detector,
		cameras:     cameras,
		cone:        validated,
		SettleDelay: 200 * time.Millisecond,
		mapper:      ledmap.NewMapper(cfg),
	}, nil
}

// LastResult returns the most recent mapping result, or nil.
func (r *Rig) LastResult() *ledmap.MapResult {
	return r.lastResult
}
