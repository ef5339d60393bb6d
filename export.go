package treemap

import (
	"encoding/json"
	"fmt"
	"os"

	ledmap "github.com/lightbough/treemap/led_map"
)

// PositionsFile is the on-disk JSON schema for mapped light positions. The
// layout matches what the diagnostics tooling expects.
type PositionsFile struct {
	TotalLEDs    int              `json:"total_leds"`
	TreeHeight   float64          `json:"tree_height"`
	NumCameras   int              `json:"num_cameras"`
	NumObserved  int              `json:"num_observed"`
	NumPredicted int              `json:"num_predicted"`
	Positions    []PositionRecord `json:"positions"`
}

// PositionRecord is one light in the positions file.
type PositionRecord struct {
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Height     float64 `json:"height"` // Normalized, 0 at the base
	Angle      float64 `json:"angle"`  // Degrees, [0,360)
	Radius     float64 `json:"radius"`
	Confidence float64 `json:"confidence"`
	Surface    string  `json:"surface"`
	Predicted  bool    `json:"predicted"`
}

// ExportPositions writes a mapping result to a JSON file.
func ExportPositions(path string, result *ledmap.MapResult, cone ledmap.ConeShape, numCameras int) error {
	if result == nil {
		return fmt.Errorf("nil mapping result")
	}

	out := PositionsFile{
		TotalLEDs:    len(result.Positions),
		TreeHeight:   cone.Height,
		NumCameras:   numCameras,
		NumObserved:  result.NumObserved,
		NumPredicted: result.NumPredicted,
		Positions:    make([]PositionRecord, 0, len(result.Positions)),
	}
	for _, p := range result.Positions {
		out.Positions = append(out.Positions, PositionRecord{
			Index:      p.LightIndex,
			X:          p.X,
			Y:          p.Y,
			Z:          p.Z,
			Height:     p.NormalizedHeight,
			Angle:      p.AngleDeg,
			Radius:     p.Radius,
			Confidence: p.Confidence,
			Surface:    p.Surface.String(),
			Predicted:  p.Resolution == ledmap.ResolvedPredicted,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding positions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing positions file: %w", err)
	}
	return nil
}

// LoadPositions reads a previously exported positions file.
func LoadPositions(path string) (*PositionsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading positions file: %w", err)
	}
	var pf PositionsFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing positions file: %w", err)
	}
	return &pf, nil
}

// detectionRecord is the JSON form of one raw detection.
type detectionRecord struct {
	Light      int     `json:"light"`
	Camera     int     `json:"camera"`
	PixelX     float64 `json:"px"`
	PixelY     float64 `json:"py"`
	Brightness float64 `json:"brightness"`
	BlobArea   float64 `json:"blob_area"`
}

// SaveDetections persists a capture sweep so mapping can be re-run offline
// with different tuning.
func SaveDetections(path string, detections []ledmap.Detection) error {
	records := make([]detectionRecord, 0, len(detections))
	for _, d := range detections {
		records = append(records, detectionRecord{
			Light:      d.LightIndex,
			Camera:     d.CameraIndex,
			PixelX:     d.PixelX,
			PixelY:     d.PixelY,
			Brightness: d.Brightness,
			BlobArea:   d.BlobArea,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding detections: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing detections file: %w", err)
	}
	return nil
}

// LoadDetections reads a persisted capture sweep.
func LoadDetections(path string) ([]ledmap.Detection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading detections file: %w", err)
	}
	var records []detectionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing detections file: %w", err)
	}
	detections := make([]ledmap.Detection, 0, len(records))
	for _, rec := range records {
		detections = append(detections, ledmap.Detection{
			LightIndex:  rec.Light,
			CameraIndex: rec.Camera,
			PixelX:      rec.PixelX,
			PixelY:      rec.PixelY,
			Brightness:  rec.Brightness,
			BlobArea:    rec.BlobArea,
		})
	}
	return detections, nil
}
