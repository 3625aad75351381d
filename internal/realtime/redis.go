package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "itinerary:"

// RedisBroker publishes updates on Redis so every API instance's Hub sees
// them. Local subscribers are fed from the Redis echo, not directly.
type RedisBroker struct {
	client redis.UniversalClient
	hub    *Hub
	logger *slog.Logger
}

func NewRedisBroker(client redis.UniversalClient, hub *Hub, logger *slog.Logger) *RedisBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBroker{client: client, hub: hub, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, u Update) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("realtime: encode update: %w", err)
	}
	if err := b.client.Publish(ctx, channelPrefix+u.TripID.String(), payload).Err(); err != nil {
		return fmt.Errorf("realtime: publish: %w", err)
	}
	return nil
}

// Run relays Redis messages into the hub until ctx is done. ready, if not
// nil, is closed once the pattern subscription is confirmed.
func (b *RedisBroker) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("realtime: subscribe: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var u Update
			if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
				b.logger.Warn("dropping malformed itinerary update", "channel", msg.Channel, "error", err)
				continue
			}
			if !strings.HasSuffix(msg.Channel, u.TripID.String()) {
				b.logger.Warn("itinerary update on unexpected channel", "channel", msg.Channel, "trip_id", u.TripID)
				continue
			}
			b.hub.Deliver(u)
		}
	}
}
