package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/dashboard"
	"github.com/campusfix/complaint-service/internal/domain"
)

// TicketSource lists every ticket for the digest.
type TicketSource interface {
	ListAllTickets(ctx context.Context) ([]domain.Ticket, error)
}

// DigestWorker periodically logs an analytics summary of all tickets.
type DigestWorker struct {
	source TicketSource
	logger *zap.Logger
	cron   *cron.Cron
}

// NewDigestWorker schedules the digest (standard cron syntax or descriptors
// such as @hourly).
func NewDigestWorker(schedule string, source TicketSource, logger *zap.Logger) (*DigestWorker, error) {
	w := &DigestWorker{source: source, logger: logger, cron: cron.New()}
	if _, err := w.cron.AddFunc(schedule, w.runOnce); err != nil {
		return nil, err
	}
	return w, nil
}

// Start begins scheduling in the background.
func (w *DigestWorker) Start() {
	w.cron.Start()
	w.logger.Info("analytics digest scheduled", zap.Int("entries", len(w.cron.Entries())))
}

// Stop halts scheduling and waits for a running digest to finish.
func (w *DigestWorker) Stop() {
	<-w.cron.Stop().Done()
}

func (w *DigestWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tickets, err := w.source.ListAllTickets(ctx)
	if err != nil {
		w.logger.Warn("analytics digest failed", zap.Error(err))
		return
	}
	a := dashboard.ComputeAnalytics(tickets)
	w.logger.Info("analytics digest",
		zap.Int("total", a.Total),
		zap.Int("open", a.ByStatus[domain.TicketStatusOpen]),
		zap.Int("in_progress", a.ByStatus[domain.TicketStatusInProgress]),
		zap.Int("resolved", a.ByStatus[domain.TicketStatusResolved]),
		zap.Float64("avg_resolution_hours", a.AvgResolutionHours),
		zap.Float64("avg_urgency", a.AvgUrgency),
		zap.Float64("resolution_rate", a.ResolutionRate))
}
