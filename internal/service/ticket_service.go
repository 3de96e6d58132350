package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/auth"
	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/events"
	"github.com/campusfix/complaint-service/internal/repository"
	"github.com/campusfix/complaint-service/internal/storage"
	"github.com/campusfix/complaint-service/internal/submission"
	apperrors "github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// TicketService coordinates the student side of ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	blobs      storage.BlobStore
	classifier submission.Classifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for ticket service. Blobs and Classifier may be nil.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Blobs      storage.BlobStore
	Classifier submission.Classifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketSubmitInput is a complaint form plus how to obtain its classification:
// either a result the client already received, or Analyze to classify now.
type TicketSubmitInput struct {
	Form           submission.Form
	Classification json.RawMessage
	Analyze        bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		blobs:      deps.Blobs,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// SubmitTicket runs a draft through classification and stores it.
func (s *TicketService) SubmitTicket(ctx context.Context, principal *auth.Principal, input TicketSubmitInput) (*domain.Ticket, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	draft := submission.NewDraft(submission.Owner{ID: principal.UserID, Email: principal.Email}, input.Form)
	switch {
	case hasClassification(input.Classification):
		if err := draft.Accept(input.Classification); err != nil {
			return nil, err
		}
	case input.Analyze && s.classifier != nil:
		if _, err := draft.Classify(ctx, s.classifier); err != nil {
			return nil, err
		}
	}

	ticket, err := draft.Submit(ctx, submission.Deps{Tickets: s.tickets, Blobs: s.blobs})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("ticket submitted",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(ticket.Category)),
		zap.Int("urgency", ticket.Urgency))

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		OwnerID:  ticket.UserID,
		Actor:    principalActor(principal),
		Payload: events.TicketCreatedPayload{
			Category: ticket.Category,
			Urgency:  ticket.Urgency,
			Summary:  ticket.Summary,
		},
	})
	return ticket, nil
}

// ListUserTickets returns the caller's tickets, newest first.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketQuery{OwnerID: &userID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAllTickets returns every ticket, newest first.
func (s *TicketService) ListAllTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketQuery{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func hasClassification(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func principalActor(p *auth.Principal) events.Actor {
	return events.Actor{UserID: p.UserID, Role: p.Role}
}
