package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/auth"
	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/events"
	"github.com/campusfix/complaint-service/internal/repository"
	apperrors "github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// AssignmentService handles admin triage: status changes and assignment.
type AssignmentService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{tickets: deps.TicketRepo, dispatcher: deps.Dispatcher, logger: logger}
}

// UpdateStatus moves a ticket to any status. Resolving stamps the resolution time;
// moving away from resolved keeps the old stamp.
func (s *AssignmentService) UpdateStatus(ctx context.Context, actor *auth.Principal, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, ticketID)
	}

	updated, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return nil, notFoundOr(err, ticketID)
	}

	s.logger.Info("ticket status changed",
		zap.String("ticket_id", ticketID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)))

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		OwnerID:  updated.UserID,
		Actor:    principalActor(actor),
		Payload:  events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: status},
	})
	return updated, nil
}

// AssignTicket records who is handling a ticket. Blank assignees are rejected.
func (s *AssignmentService) AssignTicket(ctx context.Context, actor *auth.Principal, ticketID, assignee string) (*domain.Ticket, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, apperrors.NewValidationError("assigned_to is required", nil)
	}

	updated, err := s.tickets.UpdateAssignment(ctx, ticketID, assignee)
	if err != nil {
		return nil, notFoundOr(err, ticketID)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticketID,
		OwnerID:  updated.UserID,
		Actor:    principalActor(actor),
		Payload:  events.TicketAssignedPayload{AssignedTo: assignee},
	})
	return updated, nil
}

func notFoundOr(err error, ticketID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}
