package creds

import (
	"encoding/json"
	"fmt"
	"os"
)

// ControllerCredentials holds the connection details for the light-string
// controller's network API.
type ControllerCredentials struct {
	Address string `json:"address"`
	APIKey  string `json:"api_key,omitempty"`
}

// Load reads and parses controller credentials from a JSON file.
func Load(path string) (*ControllerCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	var c ControllerCredentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	if c.Address == "" {
		return nil, fmt.Errorf("credentials file %s has no address", path)
	}
	return &c, nil
}
