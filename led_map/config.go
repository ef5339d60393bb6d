package ledmap

// Config holds all configuration for the light mapping pipeline.
type Config struct {
	Confidence ConfidenceConfig
	Reflection ReflectionConfig
	Occlusion  OcclusionConfig
	Resolver   ResolverConfig
	GapFill    GapFillConfig
	Refine     RefineConfig
}

// ConfidenceConfig holds parameters for per-detection confidence scoring.
type ConfidenceConfig struct {
	BrightnessFloor   float64 // Brightness at or below this maps to 0
	BrightnessCeiling float64 // Brightness at or above this maps to 1
	BlobAreaMin       float64 // Below this the blob is noise (confidence 0)
	BlobAreaIdealMin  float64 // Start of the full-confidence band
	BlobAreaIdealMax  float64 // End of the full-confidence band
	BlobAreaMax       float64 // Above this the blob is a reflection or merge (confidence 0)
	SilhouetteCheck   bool    // Require the pixel ray to hit the cone silhouette
	AngularFloor      float64 // Minimum angular confidence, avoids exact zero at frame edges
}

// ReflectionConfig holds parameters for cross-light reflection clustering.
type ReflectionConfig struct {
	PixelTolerance float64 // Spatial bucket size for clustering detections (pixels)
	DiscountRate   float64 // Per-extra-member confidence discount rate
	MaxClusterSize int     // Clusters larger than this are dropped outright
	MinConfidence  float64 // Discounted detections below this are dropped
}

// OcclusionConfig holds parameters for per-camera visibility segmentation.
type OcclusionConfig struct {
	SmoothingWindow  int     // Centered moving-average window over light indices
	VisibleThreshold float64 // Smoothed confidence at or above this is visible
	HiddenScoreBase  float64 // Occlusion score floor for hidden segments
	HiddenScoreRange float64 // Added score scaled by (1 - segment avg confidence)
}

// ResolverConfig holds parameters for best-observation selection.
type ResolverConfig struct {
	BackSurfaceThreshold float64 // Occlusion score at or above this picks the far intersection
}

// GapFillConfig holds parameters for filling unresolved light indices.
type GapFillConfig struct {
	InterpolationPenalty float64 // Confidence multiplier for two-sided interpolation
	ExtrapolationDecay   float64 // Per-index confidence decay for one-sided extrapolation
	DefaultStepFraction  float64 // Step size (fraction of cone height) with a single anchor
}

// RefineConfig holds parameters for camera azimuth refinement.
type RefineConfig struct {
	Iterations int     // Gauss-Newton iterations
	Epsilon    float64 // Finite-difference step for the numeric Jacobian
}

// DefaultConfig returns a Config with sensible defaults, tuned on a 200-light
// string wound around a ~2m artificial tree.
func DefaultConfig() Config {
	return Config{
		Confidence: ConfidenceConfig{
			BrightnessFloor:   40.0,
			BrightnessCeiling: 200.0,
			BlobAreaMin:       2.0,
			BlobAreaIdealMin:  6.0,
			BlobAreaIdealMax:  60.0,
			BlobAreaMax:       200.0,
			SilhouetteCheck:   false,
			AngularFloor:      0.05,
		},
		Reflection: ReflectionConfig{
			PixelTolerance: 20.0,
			DiscountRate:   0.5,
			MaxClusterSize: 6,
			MinConfidence:  0.15,
		},
		Occlusion: OcclusionConfig{
			SmoothingWindow:  5,
			VisibleThreshold: 0.5,
			HiddenScoreBase:  0.7,
			HiddenScoreRange: 0.3,
		},
		Resolver: ResolverConfig{
			BackSurfaceThreshold: 0.5,
		},
		GapFill: GapFillConfig{
			InterpolationPenalty: 0.8,
			ExtrapolationDecay:   0.85,
			DefaultStepFraction:  0.01,
		},
		Refine: RefineConfig{
			Iterations: 12,
			Epsilon:    1e-5,
		},
	}
}
