package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/repository"
)

type mockTicketRepo struct{ mock.Mock }

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	return m.Called(ctx, ticket).Error(0)
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	return ticketOrNil(args.Get(0)), args.Error(1)
}

func (m *mockTicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	args := m.Called(ctx, id, status)
	return ticketOrNil(args.Get(0)), args.Error(1)
}

func (m *mockTicketRepo) UpdateAssignment(ctx context.Context, id, assignee string) (*domain.Ticket, error) {
	args := m.Called(ctx, id, assignee)
	return ticketOrNil(args.Get(0)), args.Error(1)
}

func (m *mockTicketRepo) List(ctx context.Context, q repository.TicketQuery) ([]domain.Ticket, error) {
	args := m.Called(ctx, q)
	tickets, _ := args.Get(0).([]domain.Ticket)
	return tickets, args.Error(1)
}

func ticketOrNil(v any) *domain.Ticket {
	t, _ := v.(*domain.Ticket)
	return t
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = "new-user"
	}
	return args.Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}
