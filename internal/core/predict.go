package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

const topPredictions = 3

// PredictionClient talks to the external disease-prediction service. The
// service returns an already-ranked list; this client does not re-sort.
type PredictionClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewPredictionClient(baseURL string, timeout time.Duration) *PredictionClient {
	return &PredictionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

type predictRequest struct {
	Symptoms string `json:"symptoms"`
	UserID   string `json:"user_id"`
	TopN     int    `json:"top_n"`
}

type predictResponse struct {
	Success     bool                      `json:"success"`
	Error       string                    `json:"error"`
	Predictions []store.DiseasePrediction `json:"predictions"`
}

// Predict sends the symptom list to the prediction endpoint and returns the
// ranked predictions. Any transport failure, timeout, non-200 status or a
// response without a predictions list is reported as ErrUpstream.
func (c *PredictionClient) Predict(ctx context.Context, symptoms []string, userID string) ([]store.DiseasePrediction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(predictRequest{
		Symptoms: strings.Join(symptoms, ","),
		UserID:   userID,
		TopN:     topPredictions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Prediction service request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Prediction service returned status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var predictResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictResp); err != nil {
		return nil, fmt.Errorf("%w: undecodable response: %v", ErrUpstream, err)
	}
	if !predictResp.Success || predictResp.Predictions == nil {
		log.Printf("Prediction service reported failure: %s", predictResp.Error)
		return nil, fmt.Errorf("%w: no predictions in response", ErrUpstream)
	}

	return predictResp.Predictions, nil
}
