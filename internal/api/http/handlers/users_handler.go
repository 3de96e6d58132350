package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusfix/complaint-service/internal/api/dto"
	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/service"
	apperrors "github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// UsersHandler exposes sign-up, sign-in and profile endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("Please fill all fields", nil)
	}

	user, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     token.Value,
			ExpiresAt: token.ExpiresAt,
			User:      dto.NewUserResponse(user, user.Role),
		},
	})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     token.Value,
			ExpiresAt: token.ExpiresAt,
			User:      dto.NewUserResponse(user, h.auth.ResolveRole(c.UserContext(), user.ID)),
		},
	})
}

// Me handles GET /api/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.UserContext(), principal.UserID)
	if err != nil {
		// no stored profile yet; report what the token says
		user = &domain.User{ID: principal.UserID, Email: principal.Email}
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user, principal.Role)})
}

// ChangePassword handles POST /api/me/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.ChangePassword(c.UserContext(), principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
