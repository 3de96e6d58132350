package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/live"
)

const heartbeatInterval = 15 * time.Second

type snapshotItem struct {
	snap live.Snapshot
	err  error
}

// streamSnapshots writes every snapshot of sub as a server-sent event until the client
// goes away. A heartbeat comment is sent while idle so a dead connection is noticed.
func streamSnapshots(c *fiber.Ctx, sub *live.Subscription, logger *zap.Logger, render func([]domain.Ticket) any) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		items := make(chan snapshotItem)
		go func() {
			defer close(items)
			for snap, err := range sub.Snapshots(ctx) {
				select {
				case items <- snapshotItem{snap: snap, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			var err error
			select {
			case item, ok := <-items:
				if !ok {
					return
				}
				if item.err != nil {
					logger.Warn("snapshot failed", zap.Error(item.err))
					err = writeEvent(w, "error", fiber.Map{"error": "Failed to load tickets"})
				} else {
					err = writeEvent(w, "snapshot", render(item.snap.Tickets))
				}
			case <-ticker.C:
				_, err = io.WriteString(w, ": ping\n\n")
			}
			if err == nil {
				err = w.Flush()
			}
			if err != nil {
				logger.Debug("stream closed", zap.Error(err))
				return
			}
		}
	}))
	return nil
}

func writeEvent(w io.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
