package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/campusfix/complaint-service/internal/domain"
)

type stubSource struct {
	tickets []domain.Ticket
	err     error
}

func (s stubSource) ListAllTickets(context.Context) ([]domain.Ticket, error) {
	return s.tickets, s.err
}

func TestDigestLogsSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w, err := NewDigestWorker("@hourly", stubSource{tickets: []domain.Ticket{
		{Status: domain.TicketStatusOpen, Urgency: 4},
		{Status: domain.TicketStatusResolved, Urgency: 8},
	}}, zap.New(core))
	require.NoError(t, err)

	w.runOnce()

	entries := logs.FilterMessage("analytics digest").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["total"])
	assert.Equal(t, 50.0, fields["resolution_rate"])
	assert.Equal(t, 6.0, fields["avg_urgency"])
}

func TestDigestLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w, err := NewDigestWorker("*/5 * * * *", stubSource{err: errors.New("db down")}, zap.New(core))
	require.NoError(t, err)

	w.runOnce()
	assert.Equal(t, 1, logs.FilterMessage("analytics digest failed").Len())
}

func TestDigestRejectsBadSchedule(t *testing.T) {
	_, err := NewDigestWorker("every now and then", stubSource{}, zap.NewNop())
	assert.Error(t, err)
}
