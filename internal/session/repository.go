package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ctchen222/tictactoe-minimax/internal/game"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned for unknown games and for games owned by someone else.
var ErrNotFound = errors.New("game not found")

const maxUpdateRetries = 3

// Session is a live game and the player who owns it.
type Session struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Game      game.Game `json:"game"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// Repository stores live sessions.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	// Update loads the session, applies fn and saves the result atomically.
	// An error from fn aborts the update and is returned as is.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type redisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepository creates a Redis-based Repository. Sessions expire ttl
// after their last change.
func NewRedisRepository(rdb *redis.Client, ttl time.Duration) Repository {
	return &redisRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("game:%s", id)
}

// Create stores a new session, refusing to overwrite an existing one.
func (r *redisRepository) Create(ctx context.Context, s *Session) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create", trace.WithAttributes(attribute.String("game.id", s.ID)))
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ok, err := r.rdb.SetNX(ctx, sessionKey(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session in redis: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	return nil
}

// FindByID retrieves a session from Redis.
func (r *redisRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.FindByID", trace.WithAttributes(attribute.String("game.id", id)))
	defer span.End()

	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	return decodeSession(data)
}

// Update applies fn inside a WATCH transaction, retrying when another writer
// changed the session in between.
func (r *redisRepository) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Update", trace.WithAttributes(attribute.String("game.id", id)))
	defer span.End()

	key := sessionKey(id)
	var updated *Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		s, err := decodeSession(data)
		if err != nil {
			return err
		}

		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = time.Now().UTC()

		newData, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal updated session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newData, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = s
		return nil
	}

	for range maxUpdateRetries {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			span.AddEvent("optimistic lock conflict, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("failed to update session %s: too many concurrent writers", id)
}

// Delete removes a session. Deleting an unknown session returns ErrNotFound.
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete", trace.WithAttributes(attribute.String("game.id", id)))
	defer span.End()

	n, err := r.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}
