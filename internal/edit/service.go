package edit

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
	"server/internal/providers/replicate"
)

// Fixed generation parameters submitted with every prediction.
const (
	outputFormat  = "webp"
	outputQuality = 80
	aspectRatio   = "match_input_image"
)

// PredictionClient is the slice of the provider client the service needs.
type PredictionClient interface {
	HasCredentials() bool
	CreatePrediction(ctx context.Context, model string, input replicate.PredictionInput) (*replicate.Prediction, error)
	Wait(ctx context.Context, id string) (*replicate.Prediction, error)
	UploadFile(ctx context.Context, filename, mimeType string, data []byte) (string, error)
}

// Options configures the edit service.
type Options struct {
	Client          PredictionClient
	DefaultModel    string
	ImageInputMode  string
	WaitCeiling     time.Duration
	MaxPromptLength int
	MaxImageBytes   int64
	Logger          *infra.Logger
}

// Service runs the generation request core: validate, encode, submit the
// prediction, wait for a terminal state under the wall-clock ceiling, and
// normalize the output into image URLs.
type Service struct {
	client          PredictionClient
	defaultModel    string
	imageInputMode  string
	waitCeiling     time.Duration
	maxPromptLength int
	maxImageBytes   int64
	logger          *infra.Logger
}

// Request is one validated-to-be edit instruction against one image.
type Request struct {
	Prompt string
	Model  string
	Image  *ImageUpload
}

// Result is the stable success contract: a non-empty ordered list of URLs.
type Result struct {
	Model  string
	Prompt string
	Images []string
}

// NewService constructs the service with defaults matching the product contract.
func NewService(opts Options) *Service {
	defaultModel := strings.TrimSpace(opts.DefaultModel)
	if defaultModel == "" {
		defaultModel = "qwen/qwen-image-edit"
	}
	mode := opts.ImageInputMode
	if mode != infra.ImageInputModeUpload {
		mode = infra.ImageInputModeDataURL
	}
	ceiling := opts.WaitCeiling
	if ceiling <= 0 {
		ceiling = 60 * time.Second
	}
	maxPrompt := opts.MaxPromptLength
	if maxPrompt <= 0 {
		maxPrompt = DefaultMaxPromptLength
	}
	maxImage := opts.MaxImageBytes
	if maxImage <= 0 {
		maxImage = DefaultMaxImageBytes
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Service{
		client:          opts.Client,
		defaultModel:    defaultModel,
		imageInputMode:  mode,
		waitCeiling:     ceiling,
		maxPromptLength: maxPrompt,
		maxImageBytes:   maxImage,
		logger:          logger,
	}
}

// Edit runs one prompt against one image. Validation failures return a
// *ValidationError before any provider call; all other failures map onto the
// taxonomy in errors.go.
func (s *Service) Edit(ctx context.Context, req Request) (*Result, error) {
	if err := ValidatePrompt(req.Prompt, s.maxPromptLength); err != nil {
		return nil, err
	}
	if err := ValidateImage(req.Image, s.maxImageBytes); err != nil {
		return nil, err
	}
	if s.client == nil || !s.client.HasCredentials() {
		return nil, ErrProviderUnconfigured
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.defaultModel
	}
	prompt := SanitizePrompt(req.Prompt, s.maxPromptLength)

	imageInput, err := s.encodeImage(ctx, req.Image)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}

	pred, err := s.client.CreatePrediction(ctx, model, replicate.PredictionInput{
		Prompt:        prompt,
		Image:         imageInput,
		GoFast:        true,
		OutputFormat:  outputFormat,
		OutputQuality: outputQuality,
		AspectRatio:   aspectRatio,
	})
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	s.logger.Info().
		Str("model", model).
		Str("prediction_id", pred.ID).
		Msg("edit: prediction submitted")

	// The ceiling is measured from submission. On timeout the prediction is
	// abandoned; the API offers no cancel for this path.
	waitCtx, cancel := context.WithTimeout(ctx, s.waitCeiling)
	defer cancel()
	pred, err = s.client.Wait(waitCtx, pred.ID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	switch pred.Status {
	case replicate.StatusSucceeded:
	case replicate.StatusFailed:
		return nil, &ProviderError{Message: pred.Error}
	case replicate.StatusCanceled:
		return nil, &ProviderError{Message: "prediction was canceled"}
	default:
		return nil, fmt.Errorf("edit: unexpected terminal status %q", pred.Status)
	}

	images, err := replicate.NormalizeOutput(pred.Output)
	if err != nil {
		s.logger.Warn().
			Str("prediction_id", pred.ID).
			RawJSON("output", nonNilJSON(pred.Output)).
			Err(err).
			Msg("edit: prediction succeeded without usable output")
		return nil, &NoOutputError{EmptyObjects: errors.Is(err, replicate.ErrEmptyOutputObjects)}
	}

	return &Result{Model: model, Prompt: prompt, Images: images}, nil
}

func (s *Service) encodeImage(ctx context.Context, img *ImageUpload) (string, error) {
	if s.imageInputMode == infra.ImageInputModeUpload {
		return s.client.UploadFile(ctx, img.Filename, img.MIME, img.Data)
	}
	return dataURL(img.MIME, img.Data), nil
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func nonNilJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
