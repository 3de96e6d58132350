package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/api/dto"
	"github.com/campusfix/complaint-service/internal/auth"
	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/live"
	"github.com/campusfix/complaint-service/internal/repository"
	"github.com/campusfix/complaint-service/internal/service"
	"github.com/campusfix/complaint-service/internal/submission"
	apperrors "github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// TicketsHandler manages student ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	feed    *live.Feed
	logger  *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, feed *live.Feed, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{service: ticketService, feed: feed, logger: logger}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.SubmitTicket(c.UserContext(), principal, service.TicketSubmitInput{
		Form: submission.Form{
			Description: req.Description,
			Building:    req.Building,
			Floor:       req.Floor,
			RoomNumber:  req.RoomNumber,
			Location:    req.Location,
			Photo:       req.Photo,
		},
		Classification: req.Classification,
		Analyze:        req.Analyze,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListMine GET /api/tickets/mine.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListUserTickets(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketList(tickets)})
}

// StreamMine GET /api/tickets/mine/stream.
func (h *TicketsHandler) StreamMine(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	owner := principal.UserID
	sub := h.feed.Subscribe(repository.TicketQuery{OwnerID: &owner})
	return streamSnapshots(c, sub, h.logger, func(tickets []domain.Ticket) any {
		return dto.NewTicketList(tickets)
	})
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.UserID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}
