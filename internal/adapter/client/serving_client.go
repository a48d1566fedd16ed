package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PredictRequest is the TF Serving REST predict body in row format
type PredictRequest struct {
	SignatureName string          `json:"signature_name,omitempty"`
	Instances     [][][][]float32 `json:"instances"`
}

// PredictResponse is the TF Serving REST predict answer
type PredictResponse struct {
	Predictions []json.RawMessage `json:"predictions"`
}

// ModelVersionStatus describes one loaded model version
type ModelVersionStatus struct {
	Version string `json:"version"`
	State   string `json:"state"`
	Status  struct {
		ErrorCode    string `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

// ModelStatusResponse is the answer of GET /v1/models/{name}
type ModelStatusResponse struct {
	ModelVersionStatus []ModelVersionStatus `json:"model_version_status"`
}

// Available reports whether any version is serving
func (r *ModelStatusResponse) Available() bool {
	for _, v := range r.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return true
		}
	}
	return false
}

type servingError struct {
	Error string `json:"error"`
}

// FirstScore returns the first output of the first instance. Both [[p]]
// and [p] shaped outputs are accepted.
func (r *PredictResponse) FirstScore() (float64, error) {
	if len(r.Predictions) == 0 {
		return 0, fmt.Errorf("empty predictions")
	}

	var score float64
	if err := json.Unmarshal(r.Predictions[0], &score); err == nil {
		return score, nil
	}

	var scores []float64
	if err := json.Unmarshal(r.Predictions[0], &scores); err != nil {
		return 0, fmt.Errorf("unexpected prediction shape: %s", string(r.Predictions[0]))
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("empty prediction vector")
	}
	return scores[0], nil
}

// ServingClient is an HTTP client for a TensorFlow Serving model
type ServingClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewServingClient creates a new TF Serving client for one model
func NewServingClient(baseURL, model string, timeout time.Duration) *ServingClient {
	return &ServingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ServingClient) modelURL() string {
	return c.baseURL + "/v1/models/" + url.PathEscape(c.model)
}

// Predict runs the model over instances
func (c *ServingClient) Predict(ctx context.Context, instances [][][][]float32) (*PredictResponse, error) {
	body, err := json.Marshal(PredictRequest{Instances: instances})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL()+":predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// ModelStatus fetches the version status of the model
func (c *ServingClient) ModelStatus(ctx context.Context) (*ModelStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result ModelStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func statusError(resp *http.Response) error {
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(respBody) == 0 {
		return fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var se servingError
	if json.Unmarshal(respBody, &se) == nil && se.Error != "" {
		return fmt.Errorf("model server returned status %d: %s", resp.StatusCode, se.Error)
	}
	return fmt.Errorf("model server returned status %d: %s", resp.StatusCode, string(respBody))
}
