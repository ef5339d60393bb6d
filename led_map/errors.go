package ledmap

import "errors"

var (
	// ErrInvalidCameraGeometry is returned when a camera has a non-positive
	// field of view or image dimension. All of that camera's data is rejected.
	ErrInvalidCameraGeometry = errors.New("invalid camera geometry")

	// ErrDegenerateCone is returned when cone parameters violate
	// topRadius < baseRadius or height > 0.
	ErrDegenerateCone = errors.New("degenerate cone shape")

	// ErrNoIntersection is returned when a ray misses the cone or hits it
	// outside the truncated height range.
	ErrNoIntersection = errors.New("ray does not intersect cone")

	// ErrInsufficientObservations is returned when a light index has no
	// surviving observations after filtering. Not fatal; the gap filler
	// handles these indices.
	ErrInsufficientObservations = errors.New("no surviving observations for light")

	// ErrNoResolvedNeighbors is returned when an unresolved light has no
	// resolved neighbor on either side to anchor interpolation.
	ErrNoResolvedNeighbors = errors.New("no resolved neighbors for gap filling")

	// ErrNoDetections is returned when a mapping run is attempted with no
	// input detections at all.
	ErrNoDetections = errors.New("no detections supplied")
)
