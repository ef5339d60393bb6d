package treemap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"

	ledmap "github.com/lightbough/treemap/led_map"
)

// CalibrationFile is the on-disk JSON schema for the measured rig geometry:
// one cone, one entry per camera.
type CalibrationFile struct {
	TotalLights int            `json:"total_lights"`
	Cone        coneRecord     `json:"cone"`
	Cameras     []cameraRecord `json:"cameras"`
}

type coneRecord struct {
	BaseRadius float64 `json:"base_radius"`
	TopRadius  float64 `json:"top_radius"`
	Height     float64 `json:"height"`
}

type cameraRecord struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	AzimuthDeg  float64 `json:"azimuth"`
	FOVDeg      float64 `json:"fov"`
	ImageWidth  int     `json:"image_width"`
	ImageHeight int     `json:"image_height"`
}

// LoadCalibration reads and validates rig calibration from a JSON file.
func LoadCalibration(path string) ([]ledmap.CameraPose, ledmap.ConeShape, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ledmap.ConeShape{}, 0, fmt.Errorf("reading calibration file: %w", err)
	}
	var cf CalibrationFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, ledmap.ConeShape{}, 0, fmt.Errorf("parsing calibration file: %w", err)
	}

	cone, err := ledmap.NewConeShape(cf.Cone.BaseRadius, cf.Cone.TopRadius, cf.Cone.Height)
	if err != nil {
		return nil, ledmap.ConeShape{}, 0, fmt.Errorf("calibration cone: %w", err)
	}

	cameras := make([]ledmap.CameraPose, 0, len(cf.Cameras))
	for _, c := range cf.Cameras {
		cameras = append(cameras, ledmap.CameraPose{
			Position:    r3.Vector{X: c.X, Y: c.Y, Z: c.Z},
			AzimuthDeg:  c.AzimuthDeg,
			FOVDeg:      c.FOVDeg,
			ImageWidth:  c.ImageWidth,
			ImageHeight: c.ImageHeight,
		})
	}

	return cameras, cone, cf.TotalLights, nil
}
