package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

const (
	// DefaultEndpoint is the base URL of the Hugging Face Inference API.
	DefaultEndpoint = "https://api-inference.huggingface.co/models"

	// DefaultModel is the zero-shot classification model.
	DefaultModel = "facebook/bart-large-mnli"

	// DefaultTimeout bounds a single classification request.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 1 << 20
)

// zeroShotRequest is the request body of a zero-shot classification call.
type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// zeroShotResponse is the ranked answer. Labels and Scores are parallel
// slices sorted by descending score.
type zeroShotResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// HuggingFace classifies text with a zero-shot model served by the
// Hugging Face Inference API.
type HuggingFace struct {
	client   *http.Client
	endpoint string
	model    string
	token    string
	labels   []string
	timeout  time.Duration
	logger   *slog.Logger
}

// HuggingFaceOption configures a HuggingFace classifier.
type HuggingFaceOption func(*HuggingFace)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.client = client
	}
}

// WithEndpoint sets the API base URL. The model name is appended to it.
func WithEndpoint(endpoint string) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithModel sets the model identifier.
func WithModel(name string) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.model = name
	}
}

// WithCandidateLabels replaces the default candidate labels.
func WithCandidateLabels(labels []string) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.labels = append([]string(nil), labels...)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.logger = logger
	}
}

// NewHuggingFace creates a classifier authenticating with token.
func NewHuggingFace(token string, opts ...HuggingFaceOption) *HuggingFace {
	h := &HuggingFace{
		endpoint: DefaultEndpoint,
		model:    DefaultModel,
		token:    token,
		labels:   append([]string(nil), CandidateLabels...),
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.client == nil {
		h.client = &http.Client{}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	return h
}

// URL returns the inference URL for the configured model.
func (h *HuggingFace) URL() string {
	return h.endpoint + "/" + h.model
}

// Classify sends text to the model and returns the top-ranked label.
// The caller is expected to pass an excerpt; see Excerpt.
func (h *HuggingFace) Classify(ctx context.Context, text string) (model.Prediction, error) {
	body, err := json.Marshal(zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: h.labels},
	})
	if err != nil {
		return model.Prediction{}, &Error{Message: err.Error(), Err: err}
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL(), bytes.NewReader(body))
	if err != nil {
		return model.Prediction{}, &Error{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.logger.Debug("classifying text", "model", h.model, "length", len(text))

	resp, err := h.client.Do(req)
	if err != nil {
		return model.Prediction{}, &Error{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.Prediction{}, &Error{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("classifier returned non-OK status",
			"model", h.model,
			"status", resp.StatusCode,
		)
		return model.Prediction{}, &Error{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(raw)),
		}
	}

	var decoded zeroShotResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return model.Prediction{}, &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decode response: %v", err),
			Err:        err,
		}
	}
	if len(decoded.Labels) == 0 || len(decoded.Scores) == 0 {
		return model.Prediction{}, &Error{
			StatusCode: resp.StatusCode,
			Message:    "empty classification result",
		}
	}

	prediction := model.Prediction{Label: decoded.Labels[0], Score: decoded.Scores[0]}
	h.logger.Debug("classification complete",
		"label", prediction.Label,
		"score", prediction.Score,
	)
	return prediction, nil
}
