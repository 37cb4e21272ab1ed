package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingAPIToken indicates that the client was configured without credentials.
var ErrMissingAPIToken = errors.New("replicate: api token is required")

// Prediction statuses reported by the API. starting and processing are
// non-terminal; succeeded, failed, and canceled are terminal.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Options configures the Replicate prediction client.
type Options struct {
	APIToken     string
	BaseURL      string
	PollInterval time.Duration
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

// Client performs HTTP calls to the Replicate predictions API.
type Client struct {
	apiToken     string
	baseURL      string
	pollInterval time.Duration
	httpClient   *http.Client
	logger       *infra.Logger
}

// PredictionInput is the model input for an image edit prediction. The
// generation parameters are fixed; only prompt and image vary per request.
type PredictionInput struct {
	Prompt        string `json:"prompt"`
	Image         string `json:"image,omitempty"`
	GoFast        bool   `json:"go_fast"`
	OutputFormat  string `json:"output_format,omitempty"`
	OutputQuality int    `json:"output_quality,omitempty"`
	AspectRatio   string `json:"aspect_ratio,omitempty"`
}

// Prediction is one asynchronous generation job tracked by the provider.
// Output stays raw because its shape varies by model; see NormalizeOutput.
type Prediction struct {
	ID     string          `json:"id"`
	Model  string          `json:"model,omitempty"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// IsTerminal reports whether the prediction reached a final status.
func (p *Prediction) IsTerminal() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

type createPredictionRequest struct {
	Input PredictionInput `json:"input"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

type fileUploadResponse struct {
	URLs struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiToken:     strings.TrimSpace(opts.APIToken),
		baseURL:      baseURL,
		pollInterval: pollInterval,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiToken != ""
}

// CreatePrediction submits a new prediction for the given model. The returned
// prediction is normally still in a non-terminal state.
func (c *Client) CreatePrediction(ctx context.Context, model string, input PredictionInput) (*Prediction, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIToken
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("replicate: model is required")
	}
	body, err := json.Marshal(createPredictionRequest{Input: input})
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}
	endpoint := c.baseURL + "/models/" + model + "/predictions"
	var pred Prediction
	if err := c.do(ctx, http.MethodPost, endpoint, "application/json", bytes.NewReader(body), &pred); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("model", model).
		Str("prediction_id", pred.ID).
		Str("status", pred.Status).
		Msg("replicate: prediction created")
	return &pred, nil
}

// GetPrediction fetches the current state of a prediction.
func (c *Client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIToken
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("replicate: prediction id is required")
	}
	var pred Prediction
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, "", nil, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// Wait polls the prediction until it reaches a terminal status or ctx is
// done. Each attempt sleeps the configured interval; the caller bounds the
// overall wait through the context deadline. On timeout the provider-side
// prediction keeps running unobserved.
func (c *Client) Wait(ctx context.Context, id string) (*Prediction, error) {
	for {
		pred, err := c.GetPrediction(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		if pred.IsTerminal() {
			return pred, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// UploadFile pushes raw image bytes to the provider files API and returns the
// URL that can be referenced as a prediction input.
func (c *Client) UploadFile(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIToken
	}
	if len(data) == 0 {
		return "", errors.New("replicate: file content is required")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("content", filename)
	if err != nil {
		return "", fmt.Errorf("replicate: build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("replicate: write upload: %w", err)
	}
	if mimeType != "" {
		_ = writer.WriteField("type", mimeType)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("replicate: finish upload: %w", err)
	}
	var file fileUploadResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/files", writer.FormDataContentType(), &buf, &file); err != nil {
		return "", err
	}
	if file.URLs.Get == "" {
		return "", errors.New("replicate: upload response missing file url")
	}
	return file.URLs.Get, nil
}

// Ping performs a lightweight authenticated call to verify connectivity and
// credentials. Used by the debug surface only.
func (c *Client) Ping(ctx context.Context) error {
	if !c.HasCredentials() {
		return ErrMissingAPIToken
	}
	return c.do(ctx, http.MethodGet, c.baseURL+"/account", "", nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("replicate: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail apiError
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
			return fmt.Errorf("replicate: %s (status %d)", detail.Detail, resp.StatusCode)
		}
		return fmt.Errorf("replicate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("replicate: decode response: %w", err)
	}
	return nil
}
