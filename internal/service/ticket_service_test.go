package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/complaint-service/internal/auth"
	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/events"
	"github.com/campusfix/complaint-service/internal/submission"
	apperrors "github.com/campusfix/complaint-service/pkg/util/errorutil"
)

var (
	student = &auth.Principal{UserID: "u1", Email: "s@campus.edu", Role: domain.RoleStudent}
	admin   = &auth.Principal{UserID: "a1", Email: "a@campus.edu", Role: domain.RoleAdmin}
)

func recordEvents(d events.Dispatcher) *[]events.Event {
	var got []events.Event
	d.SubscribeAll(func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})
	return &got
}

func TestSubmitTicketWithClientClassification(t *testing.T) {
	ctx := context.Background()
	repo := &mockTicketRepo{}
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Return(nil).Once()
	dispatcher := events.NewInMemoryDispatcher(nil)
	published := recordEvents(dispatcher)

	svc := NewTicketService(TicketDependencies{TicketRepo: repo, Dispatcher: dispatcher})
	ticket, err := svc.SubmitTicket(ctx, student, TicketSubmitInput{
		Form:           submission.Form{Description: "Leaking pipe in washroom", Floor: "2"},
		Classification: json.RawMessage(`{"category":"Water","urgency":6,"summary":"Leaking pipe in washroom"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "2", ticket.Floor)
	assert.Equal(t, "s@campus.edu", ticket.UserEmail)
	require.Len(t, *published, 1)
	assert.Equal(t, events.EventTicketCreated, (*published)[0].Type)
	assert.Equal(t, "u1", (*published)[0].OwnerID)
	assert.NotEmpty(t, (*published)[0].ID)
	repo.AssertExpectations(t)
}

func TestSubmitTicketWithoutClassification(t *testing.T) {
	repo := &mockTicketRepo{}
	svc := NewTicketService(TicketDependencies{TicketRepo: repo})

	_, err := svc.SubmitTicket(context.Background(), student, TicketSubmitInput{
		Form:           submission.Form{Description: "Leaking pipe"},
		Classification: json.RawMessage(`null`),
	})
	require.Error(t, err)
	assert.Equal(t, "CLASSIFICATION_REQUIRED", apperrors.ToDomainError(err).Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateStatusPublishesTransition(t *testing.T) {
	ctx := context.Background()
	repo := &mockTicketRepo{}
	repo.On("GetByID", ctx, "t1").Return(&domain.Ticket{ID: "t1", UserID: "u1", Status: domain.TicketStatusOpen}, nil)
	repo.On("UpdateStatus", ctx, "t1", domain.TicketStatusResolved).
		Return(&domain.Ticket{ID: "t1", UserID: "u1", Status: domain.TicketStatusResolved}, nil)
	dispatcher := events.NewInMemoryDispatcher(nil)
	published := recordEvents(dispatcher)

	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo, Dispatcher: dispatcher})
	updated, err := svc.UpdateStatus(ctx, admin, "t1", domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)

	require.Len(t, *published, 1)
	assert.Equal(t, events.TicketStatusChangedPayload{
		OldStatus: domain.TicketStatusOpen,
		NewStatus: domain.TicketStatusResolved,
	}, (*published)[0].Payload)
}

func TestUpdateStatusGuards(t *testing.T) {
	ctx := context.Background()
	repo := &mockTicketRepo{}
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo})

	_, err := svc.UpdateStatus(ctx, student, "t1", domain.TicketStatusResolved)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.UpdateStatus(ctx, admin, "t1", "closed")
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	repo.On("GetByID", ctx, "missing").Return(nil, pgxNoRows())
	_, err = svc.UpdateStatus(ctx, admin, "missing", domain.TicketStatusOpen)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestAssignTicket(t *testing.T) {
	ctx := context.Background()
	repo := &mockTicketRepo{}
	repo.On("UpdateAssignment", ctx, "t1", "Plumbing crew").
		Return(&domain.Ticket{ID: "t1", UserID: "u1"}, nil).Once()
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo})

	_, err := svc.AssignTicket(ctx, admin, "t1", "   ")
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.AssignTicket(ctx, admin, "t1", "  Plumbing crew ")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
