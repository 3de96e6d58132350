package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusfix/complaint-service/internal/domain"
)

// TicketQuery selects tickets for a listing or a live subscription.
// A nil OwnerID means every ticket.
type TicketQuery struct {
	OwnerID *string
	Limit   int
}

// Key identifies the query for logging and subscription bookkeeping.
func (q TicketQuery) Key() string {
	if q.OwnerID == nil {
		return "all"
	}
	return "owner:" + *q.OwnerID
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
	UpdateAssignment(ctx context.Context, id, assignee string) (*domain.Ticket, error)
	List(ctx context.Context, query TicketQuery) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, user_id, user_email, description, building, floor, room_number,
               location_lat, location_lng, photo_url, category, urgency, summary, status,
               assigned_to, created_at, updated_at, resolved_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, user_id, user_email, description, building, floor, room_number,
            location_lat, location_lng, photo_url, category, urgency, summary, status, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING created_at, updated_at`
	lat, lng := splitLocation(ticket.Location)
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.UserID,
		ticket.UserEmail,
		ticket.Description,
		ticket.Building,
		ticket.Floor,
		ticket.RoomNumber,
		lat,
		lng,
		ticket.PhotoURL,
		ticket.Category,
		ticket.Urgency,
		ticket.Summary,
		ticket.Status,
		ticket.AssignedTo,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus sets any status; moving to resolved stamps resolved_at.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET status=$1, updated_at=NOW(),
            resolved_at = CASE WHEN $1 = 'resolved' THEN NOW() ELSE resolved_at END
        WHERE id=$2
        RETURNING ` + ticketColumns
	return scanTicket(r.pool.QueryRow(ctx, query, status, id))
}

func (r *ticketRepository) UpdateAssignment(ctx context.Context, id, assignee string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET assigned_to=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + ticketColumns
	return scanTicket(r.pool.QueryRow(ctx, query, assignee, id))
}

// List returns matching tickets newest first.
func (r *ticketRepository) List(ctx context.Context, q TicketQuery) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if q.OwnerID != nil {
		args = append(args, *q.OwnerID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		lat, lng *float64
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.UserEmail,
		&ticket.Description,
		&ticket.Building,
		&ticket.Floor,
		&ticket.RoomNumber,
		&lat,
		&lng,
		&ticket.PhotoURL,
		&ticket.Category,
		&ticket.Urgency,
		&ticket.Summary,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		ticket.Location = &domain.Location{Lat: *lat, Lng: *lng}
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func splitLocation(loc *domain.Location) (*float64, *float64) {
	if loc == nil {
		return nil, nil
	}
	lat, lng := loc.Lat, loc.Lng
	return &lat, &lng
}
