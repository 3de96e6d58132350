//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/persistence"
	"github.com/campusfix/complaint-service/internal/repository"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_USER":     "test",
			"POSTGRES_DB":       "campusfix",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/campusfix?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, file, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(file), "..", "..", "migrations")
	require.NoError(t, persistence.RunMigrations(ctx, pool, migrations, zap.NewNop()))
	return pool
}

func TestTicketRepositoryLifecycle(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	tickets := repository.NewTicketRepository(pool)

	student := &domain.User{Email: "asha@campus.edu", DisplayName: "Asha", PasswordHash: "x", Role: domain.RoleStudent}
	require.NoError(t, users.Create(ctx, student))

	found, err := users.GetByEmail(ctx, "ASHA@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, student.ID, found.ID)
	assert.Equal(t, domain.RoleStudent, found.Role)

	first := &domain.Ticket{
		ID: uuid.NewString(), UserID: student.ID, UserEmail: student.Email,
		Description: "Leaking pipe", Building: domain.DefaultBuilding, Floor: domain.DefaultFloor,
		Location: &domain.Location{Lat: 19.07, Lng: 72.89},
		Category: domain.CategoryWater, Urgency: 6, Summary: "Leaking pipe", Status: domain.TicketStatusOpen,
	}
	require.NoError(t, tickets.Create(ctx, first))
	time.Sleep(10 * time.Millisecond)
	second := &domain.Ticket{
		ID: uuid.NewString(), UserID: student.ID, UserEmail: student.Email,
		Description: "Fan broken", Building: "Block A", Floor: "2nd",
		Category: domain.CategoryElectrical, Urgency: 3, Summary: "Fan broken", Status: domain.TicketStatusOpen,
	}
	require.NoError(t, tickets.Create(ctx, second))

	mine, err := tickets.List(ctx, repository.TicketQuery{OwnerID: &student.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")
	assert.Nil(t, mine[0].Location)
	require.NotNil(t, mine[1].Location)
	assert.InDelta(t, 72.89, mine[1].Location.Lng, 1e-9)

	resolved, err := tickets.UpdateStatus(ctx, first.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	reopened, err := tickets.UpdateStatus(ctx, first.ID, domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, resolved.ResolvedAt, reopened.ResolvedAt)

	assigned, err := tickets.UpdateAssignment(ctx, second.ID, "Maintenance crew B")
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "Maintenance crew B", *assigned.AssignedTo)

	_, err = tickets.UpdateStatus(ctx, uuid.NewString(), domain.TicketStatusOpen)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
