package classify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/observability"
	"github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// Generator is the generative-AI provider seen by the classifier.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateWithImage(ctx context.Context, prompt string, image *Image) (string, error)
}

// Request is one classification call.
type Request struct {
	Description string `json:"description"`
	Photo       string `json:"photo,omitempty"`
}

// Service turns complaint text (and optionally a photo) into a Result.
// A nil generator means the provider credential was never configured.
type Service struct {
	generator Generator
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewService constructs the classifier.
func NewService(generator Generator, logger *zap.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, logger: logger, metrics: metrics}
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.generator != nil
}

// Classify makes a single provider attempt. With a photo it tries a multimodal call first
// and falls back to text-only on any image failure.
func (s *Service) Classify(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, s.fail(errorutil.NewDomainError("VALIDATION_FAILED", "Description is required", http.StatusBadRequest, nil))
	}
	if s.generator == nil {
		s.logger.Error("GEMINI_API_KEY is not set")
		return nil, s.fail(errorutil.NewConfigError("Server configuration error: Missing API key", nil))
	}

	prompt := BuildPrompt(req.Description)
	text, err := s.generate(ctx, prompt, req.Photo)
	if err != nil {
		s.logger.Error("classification call failed", zap.Error(err))
		return nil, s.fail(upstreamError(err))
	}

	result, err := ParseResult(text)
	switch {
	case errors.Is(err, ErrMissingFields):
		return nil, s.fail(errorutil.NewUpstreamFormatError("AI response missing required fields", err))
	case err != nil:
		s.logger.Error("unparseable classification response", zap.Error(err), zap.String("raw", text))
		return nil, s.fail(errorutil.NewUpstreamFormatError("Invalid AI response format", err))
	}

	s.metrics.RecordClassification("ok")
	return result, nil
}

func (s *Service) generate(ctx context.Context, prompt, photo string) (string, error) {
	if photo == "" {
		return s.generator.GenerateText(ctx, prompt)
	}

	image, err := DecodePhoto(photo)
	if err == nil {
		var text string
		text, err = s.generator.GenerateWithImage(ctx, prompt, image)
		if err == nil {
			return text, nil
		}
	}
	s.logger.Warn("photo processing failed, classifying text only", zap.Error(err))
	s.metrics.RecordClassification("fallback")
	return s.generator.GenerateText(ctx, prompt)
}

func (s *Service) fail(err error) error {
	s.metrics.RecordClassification(errorutil.ToDomainError(err).Code)
	return err
}

// upstreamError sorts provider failures by what their message says.
func upstreamError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API_KEY") || strings.Contains(msg, "invalid"):
		return &errorutil.DomainError{
			Code:       "CONFIGURATION_ERROR",
			Message:    "Server configuration error",
			HTTPStatus: http.StatusInternalServerError,
			Details:    msg,
			Err:        err,
		}
	case strings.Contains(msg, "network") || strings.Contains(msg, "timeout") || errors.Is(err, context.DeadlineExceeded):
		return errorutil.NewUpstreamUnavailable("Service temporarily unavailable", err)
	default:
		return &errorutil.DomainError{
			Code:       "CLASSIFICATION_FAILED",
			Message:    "Failed to classify ticket",
			HTTPStatus: http.StatusInternalServerError,
			Details:    msg,
			Err:        err,
		}
	}
}
