package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/api/dto"
	"github.com/campusfix/complaint-service/internal/config"
	"github.com/campusfix/complaint-service/internal/dashboard"
	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/live"
	"github.com/campusfix/complaint-service/internal/repository"
	"github.com/campusfix/complaint-service/internal/service"
	apperrors "github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// AdminTicketsHandler serves the admin dashboard, map and analytics.
type AdminTicketsHandler struct {
	tickets    *service.TicketService
	assignment *service.AssignmentService
	feed       *live.Feed
	mapCfg     config.MapConfig
	logger     *zap.Logger
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(tickets *service.TicketService, assignment *service.AssignmentService, feed *live.Feed, mapCfg config.MapConfig, logger *zap.Logger) *AdminTicketsHandler {
	return &AdminTicketsHandler{tickets: tickets, assignment: assignment, feed: feed, mapCfg: mapCfg, logger: logger}
}

// ListTickets GET /api/admin/tickets?status=&category=&urgency=.
func (h *AdminTicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := dashboard.ParseFilter(c.Query("status"), c.Query("category"), c.Query("urgency"))
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListAllTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminTable(tickets, filter)})
}

// StreamTickets GET /api/admin/tickets/stream; accepts the same filters.
func (h *AdminTicketsHandler) StreamTickets(c *fiber.Ctx) error {
	filter, err := dashboard.ParseFilter(c.Query("status"), c.Query("category"), c.Query("urgency"))
	if err != nil {
		return err
	}
	sub := h.feed.Subscribe(repository.TicketQuery{})
	return streamSnapshots(c, sub, h.logger, func(tickets []domain.Ticket) any {
		return adminTable(tickets, filter)
	})
}

// UpdateStatus PATCH /api/admin/tickets/:id/status.
func (h *AdminTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.assignment.UpdateStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AssignTicket PATCH /api/admin/tickets/:id/assignment.
func (h *AdminTicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.assignment.AssignTicket(c.UserContext(), principal, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Map GET /api/admin/map.
func (h *AdminTicketsHandler) Map(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListAllTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MapResponse{
		Token:  h.mapCfg.Token,
		Center: [2]float64{h.mapCfg.CenterLng, h.mapCfg.CenterLat},
		Zoom:   h.mapCfg.Zoom,
		Data:   dashboard.Heatmap(tickets),
	}})
}

// Analytics GET /api/admin/analytics.
func (h *AdminTicketsHandler) Analytics(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListAllTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboard.ComputeAnalytics(tickets)})
}

func adminTable(tickets []domain.Ticket, filter dashboard.Filter) dto.AdminTicketsResponse {
	filtered := filter.Apply(tickets)
	return dto.AdminTicketsResponse{
		Tickets:    dto.NewTicketList(filtered),
		Total:      len(filtered),
		Categories: dashboard.UniqueCategories(tickets),
	}
}
