package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/events"
)

// NotificationService reports ticket events to the log.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	fields := eventFields(event)
	if p, ok := event.Payload.(events.TicketCreatedPayload); ok && p.Urgency >= 7 {
		n.logger.Warn("TicketCreated high urgency", append(fields, zap.Int("urgency", p.Urgency))...)
		return nil
	}
	n.logger.Info("TicketCreated", fields...)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	fields := eventFields(event)
	if p, ok := event.Payload.(events.TicketStatusChangedPayload); ok && p.NewStatus == domain.TicketStatusResolved {
		n.logger.Info("TicketResolved", append(fields, zap.String("notify_user", event.OwnerID))...)
		return nil
	}
	n.logger.Info("TicketStatusChanged", fields...)
	return nil
}

func (n *NotificationService) handleTicketAssigned(_ context.Context, event events.Event) error {
	n.logger.Info("TicketAssigned", eventFields(event)...)
	return nil
}

func eventFields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload),
	}
	if event.Origin != "" {
		fields = append(fields, zap.String("origin", event.Origin))
	}
	return fields
}
