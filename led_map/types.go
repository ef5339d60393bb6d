package ledmap

import "github.com/golang/geo/r3"

// Surface identifies which side of the cone a resolved light sits on,
// as seen from the camera that observed it.
type Surface int

const (
	// SurfaceFront is the near intersection, facing the observing camera.
	SurfaceFront Surface = iota
	// SurfaceBack is the far intersection, seen through the foliage.
	SurfaceBack
)

func (s Surface) String() string {
	switch s {
	case SurfaceFront:
		return "front"
	case SurfaceBack:
		return "back"
	default:
		return "unknown"
	}
}

// Resolution describes how a LightPosition was produced.
type Resolution int

const (
	// ResolvedObserved means the position came from a real camera observation.
	ResolvedObserved Resolution = iota
	// ResolvedPredicted means the position was filled in from neighbors.
	ResolvedPredicted
)

func (r Resolution) String() string {
	switch r {
	case ResolvedObserved:
		return "observed"
	case ResolvedPredicted:
		return "predicted"
	default:
		return "unknown"
	}
}

// CameraPose is the calibrated extrinsic pose and intrinsics of one still
// camera. The camera always looks at the tree's vertical axis. Immutable once
// calibrated; calibration itself happens upstream.
type CameraPose struct {
	Position    r3.Vector // World-frame position, tree base at origin, Z up
	AzimuthDeg  float64   // Angle around the tree axis, for bookkeeping/refinement
	FOVDeg      float64   // Horizontal field of view in degrees
	ImageWidth  int
	ImageHeight int
}

// Detection is one candidate blob for one (light, camera) pair, as emitted by
// the upstream blob detector. At most one Detection exists per pair.
type Detection struct {
	LightIndex  int
	CameraIndex int
	PixelX      float64
	PixelY      float64
	Brightness  float64 // 0-255 scale
	BlobArea    float64 // Pixel count of the detected blob
}

// Observation is a Detection enriched with confidence scores.
type Observation struct {
	Detection
	DetectionConfidence float64 // [0,1]
	AngularConfidence   float64 // [0,1]
	BaseWeight          float64 // DetectionConfidence * AngularConfidence
}

// SegmentState tags an occlusion segment as visible or hidden.
type SegmentState int

const (
	SegmentVisible SegmentState = iota
	SegmentHidden
)

func (s SegmentState) String() string {
	switch s {
	case SegmentVisible:
		return "visible"
	case SegmentHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// OcclusionSegment is a contiguous run of light indices that one camera sees
// (or fails to see) together. Segments for a camera partition [0, N-1].
type OcclusionSegment struct {
	StartIndex    int
	EndIndex      int // Inclusive
	State         SegmentState
	AvgConfidence float64 // Mean smoothed confidence over the run
}

// ConePoint is a point on the cone surface in both coordinate systems.
type ConePoint struct {
	Point            r3.Vector
	NormalizedHeight float64 // z / cone height, in [0,1]
	AngleDeg         float64 // atan2(y,x) normalized to [0,360)
	Radius           float64
}

// LightPosition is the final reconstructed position of one light. Exactly one
// exists per light index; never mutated after creation.
type LightPosition struct {
	LightIndex       int
	X, Y, Z          float64
	NormalizedHeight float64
	AngleDeg         float64 // [0,360)
	Radius           float64
	Confidence       float64
	Surface          Surface
	Resolution       Resolution
}

// Ray is a world-space ray with unit direction.
type Ray struct {
	Origin r3.Vector
	Dir    r3.Vector
}

// MapResult is the output of a full mapping run.
type MapResult struct {
	Positions    []LightPosition // One per light index, ascending
	NumObserved  int
	NumPredicted int

	// SegmentsByCamera holds the occlusion segmentation computed for each
	// camera index, for diagnostics.
	SegmentsByCamera map[int][]OcclusionSegment

	// SkippedCameras lists camera indices rejected for bad geometry.
	SkippedCameras []int
}
