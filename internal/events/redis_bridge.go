package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBridge mirrors local events onto a Redis channel and replays events from
// other instances into the local dispatcher.
type RedisBridge struct {
	client     *redis.Client
	channel    string
	instanceID string
	local      Dispatcher
	logger     *zap.Logger
}

// NewRedisBridge wires the bridge into local. Call Run to start relaying remote events.
func NewRedisBridge(client *redis.Client, channel string, local Dispatcher, logger *zap.Logger) *RedisBridge {
	b := &RedisBridge{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		local:      local,
		logger:     logger,
	}
	local.SubscribeAll(b.forward)
	return b
}

func (b *RedisBridge) forward(ctx context.Context, event Event) error {
	if event.Origin != "" {
		// already came from the channel
		return nil
	}
	data, err := b.encode(event)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Run relays messages until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.logger.Info("event bridge listening", zap.String("channel", b.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			event, remote, err := b.decode(msg.Payload)
			if err != nil {
				b.logger.Warn("dropping malformed event", zap.Error(err))
				continue
			}
			if !remote {
				continue
			}
			_ = b.local.Publish(ctx, event)
		}
	}
}

func (b *RedisBridge) encode(event Event) ([]byte, error) {
	event.Origin = b.instanceID
	return json.Marshal(event)
}

// decode reports remote=false for messages this instance published itself.
func (b *RedisBridge) decode(payload string) (Event, bool, error) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return Event{}, false, err
	}
	if event.Origin == "" {
		event.Origin = "unknown"
	}
	return event, event.Origin != b.instanceID, nil
}
