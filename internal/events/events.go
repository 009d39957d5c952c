package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("events")

// Event types published on a game's channel.
const (
	TypeGameUpdated = "game_updated"
	TypeGameEnded   = "game_ended"
)

// GameChannel returns the Pub/Sub channel carrying events for one game.
func GameChannel(gameID string) string {
	return fmt.Sprintf("channel:game:%s", gameID)
}

// Event represents a message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// GamePayload is the payload of game_updated and game_ended events.
type GamePayload struct {
	GameID string `json:"game_id"`
}

// NewEvent wraps payload into an Event of the given type.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

//go:generate mockgen -source=events.go -destination=mocks/mock_publisher.go -package=mocks

// Publisher publishes events to a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

// RedisBus publishes and subscribes to events over Redis Pub/Sub.
type RedisBus struct {
	rdb *redis.Client
}

// NewRedisBus creates a new RedisBus.
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

// Publish encodes the event and publishes it on channel.
func (b *RedisBus) Publish(ctx context.Context, channel string, event Event) error {
	ctx, span := tracer.Start(ctx, "RedisBus.Publish")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s on %s: %w", event.Type, channel, err)
	}
	return nil
}

// Subscribe listens on channel until ctx is done or the returned close func
// is called. Messages that do not decode as events are logged and skipped.
func (b *RedisBus) Subscribe(ctx context.Context, channel string) (<-chan Event, func() error, error) {
	pubsub := b.rdb.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan Event, 8)
	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.ErrorContext(ctx, "Could not unmarshal event", "event.channel", channel, "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, pubsub.Close, nil
}
