package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusfix/complaint-service/internal/api/dto"
	"github.com/campusfix/complaint-service/internal/classify"
	apperrors "github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// ClassifyHandler is the public classification proxy.
type ClassifyHandler struct {
	classifier *classify.Service
}

// NewClassifyHandler constructs handler.
func NewClassifyHandler(classifier *classify.Service) *ClassifyHandler {
	return &ClassifyHandler{classifier: classifier}
}

// Classify handles POST /api/classify. The result is returned unwrapped.
func (h *ClassifyHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	result, err := h.classifier.Classify(c.UserContext(), classify.Request{
		Description: req.Description,
		Photo:       req.Photo,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClassifyResponse(result))
}
