package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arogyam/health-portal/config"
	"github.com/arogyam/health-portal/models"
)

// InferenceClient talks to the opaque scoring service. The portal only gates
// access to it and records its output; model internals are not its business.
type InferenceClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewInferenceClient() *InferenceClient {
	return &InferenceClient{
		BaseURL:    config.InferenceURL(),
		HTTPClient: &http.Client{Timeout: config.InferenceTimeout()},
	}
}

type inferenceRequest struct {
	ScanRef string `json:"scan_ref"`
	Model   string `json:"model"`
}

type inferenceResponse struct {
	Interpretation string  `json:"interpretation"`
	Diagnosis      string  `json:"diagnosis"`
	Confidence     float64 `json:"confidence"`
}

// Interpret submits a scan reference to the given model and returns the
// result as a tagged interpretation: structured when the service produced a
// diagnosis, plain text otherwise.
func (c *InferenceClient) Interpret(ctx context.Context, scanRef, modelName string) (models.Interpretation, error) {
	payload, err := json.Marshal(inferenceRequest{ScanRef: scanRef, Model: modelName})
	if err != nil {
		return models.Interpretation{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return models.Interpretation{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.Interpretation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Interpretation{}, fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Interpretation{}, err
	}

	if out.Diagnosis != "" {
		return models.DiagnosisInterpretation(out.Diagnosis, out.Confidence), nil
	}
	return models.TextInterpretation(out.Interpretation), nil
}
