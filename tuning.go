package treemap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"

	ledmap "github.com/lightbough/treemap/led_map"
)

// LoadTuning reads pipeline tuning overrides from a JSON file and applies
// them on top of the defaults. Only the keys present in the file change, so a
// tuning file can adjust a single threshold without restating the rest.
func LoadTuning(path string) (ledmap.Config, error) {
	cfg := ledmap.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading tuning file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing tuning file: %w", err)
	}

	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("applying tuning overrides: %w", err)
	}
	return cfg, nil
}
