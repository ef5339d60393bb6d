package treemap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lightbough/treemap/internal/creds"
)

// HTTPLightController drives a network-attached string controller that
// exposes a small JSON API: POST /light with {"index": i, "on": bool} and
// POST /off to blank the string.
type HTTPLightController struct {
	address   string
	apiKey    string
	numLights int
	client    *http.Client
}

// NewHTTPLightController builds a controller client from a credentials file.
func NewHTTPLightController(c *creds.ControllerCredentials, numLights int) *HTTPLightController {
	return &HTTPLightController{
		address:   c.Address,
		apiKey:    c.APIKey,
		numLights: numLights,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *HTTPLightController) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding controller request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.address+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building controller request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("controller request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("controller request %s: status %d", path, resp.StatusCode)
	}
	return nil
}

// SetLight turns a single light on or off.
func (h *HTTPLightController) SetLight(ctx context.Context, index int, on bool) error {
	if index < 0 || index >= h.numLights {
		return fmt.Errorf("light index %d out of range [0, %d)", index, h.numLights)
	}
	return h.post(ctx, "/light", map[string]any{"index": index, "on": on})
}

// AllOff turns the entire string off.
func (h *HTTPLightController) AllOff(ctx context.Context) error {
	return h.post(ctx, "/off", struct{}{})
}

// NumLights reports how many lights the string has.
func (h *HTTPLightController) NumLights() int {
	return h.numLights
}
