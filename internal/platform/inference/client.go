// Package inference is the boundary to the external CTG classifier service.
// The classifier itself is an opaque collaborator: this package only shapes
// the 21-feature vector request and maps the raw class output back to the
// clinical vocabulary.
package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/fetalcare/fetalcare/internal/domain/exam"
)

// fallbackConfidence is used when the classifier exposes no probability
// interface. The result is flagged as estimated so callers can tell a
// computed confidence from this fixed substitute.
const fallbackConfidence = 85.0

// Client calls the model service over HTTP. Safe for concurrent use.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient builds a gateway to the model service at baseURL. Calls are
// bounded by timeout and are never retried: a failed clinical prediction is
// reported to the caller, who owns the retry decision.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	httpc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpc, log: log}
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Prediction    int       `json:"prediction"`
	Probabilities []float64 `json:"probabilities"`
	Error         string    `json:"error"`
}

// Predict sends the feature vector to the classifier and maps the raw class
// and probability output to an InferenceResult with canned clinical guidance.
func (c *Client) Predict(ctx context.Context, vec exam.FeatureVector) (exam.InferenceResult, error) {
	var out predictResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(predictRequest{Features: vec[:]}).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return exam.InferenceResult{}, fmt.Errorf("%w: %v", exam.ErrInferenceFailed, err)
		}
		return exam.InferenceResult{}, fmt.Errorf("%w: %v", exam.ErrModelUnavailable, err)
	}
	if resp.IsError() {
		c.log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).
			Msg("model service returned error")
		return exam.InferenceResult{}, fmt.Errorf("%w: status %d", exam.ErrModelUnavailable, resp.StatusCode())
	}
	if out.Error != "" {
		return exam.InferenceResult{}, fmt.Errorf("%w: %s", exam.ErrInferenceFailed, out.Error)
	}

	verdict, ok := classVerdicts[out.Prediction]
	if !ok {
		return exam.InferenceResult{}, fmt.Errorf("%w: unknown class %d", exam.ErrInferenceFailed, out.Prediction)
	}

	confidence := fallbackConfidence
	estimated := true
	if len(out.Probabilities) > 0 {
		top := out.Probabilities[0]
		for _, p := range out.Probabilities[1:] {
			if p > top {
				top = p
			}
		}
		confidence = math.Round(top*100*100) / 100
		estimated = false
	}

	return exam.InferenceResult{
		Prediction:          out.Prediction,
		Confidence:          confidence,
		ConfidenceEstimated: estimated,
		Status:              verdict.status,
		Description:         verdict.description,
		Color:               verdict.color,
		Recommendations:     verdict.recommendations,
	}, nil
}

// Healthy reports whether the model service answers its health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	return err == nil && resp.IsSuccess()
}
