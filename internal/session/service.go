package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ctchen222/tictactoe-minimax/internal/events"
	"ctchen222/tictactoe-minimax/internal/game"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark, difficulty string) (int, error)
}

// Service runs games between a human and the computer. It owns the turn
// order: after every human move it lets the computer reply.
type Service struct {
	repo      Repository
	calc      MoveCalculator
	publisher events.Publisher
}

// NewService creates a new Service.
func NewService(repo Repository, calc MoveCalculator, publisher events.Publisher) *Service {
	return &Service{repo: repo, calc: calc, publisher: publisher}
}

// Start creates a game for ownerID. When the computer plays X it moves before
// Start returns.
func (s *Service) Start(ctx context.Context, ownerID string, humanMark game.PlayerMark, difficulty string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session.Start", trace.WithAttributes(
		attribute.String("player.id", ownerID),
		attribute.String("game.human_mark", string(humanMark)),
		attribute.String("game.difficulty", difficulty),
	))
	defer span.End()

	g, err := game.NewGame(humanMark, difficulty)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid game settings")
		return nil, err
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Game:      *g,
		CreatedAt: now,
		UpdatedAt: now,
	}
	span.SetAttributes(attribute.String("game.id", sess.ID))

	if err := s.playComputer(ctx, &sess.Game); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer could not open the game")
		return nil, err
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store new game")
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	slog.InfoContext(ctx, "Game started", "game.id", sess.ID, "player.id", ownerID, "game.human_mark", humanMark, "game.difficulty", difficulty)
	s.publish(ctx, sess.ID, events.TypeGameUpdated)
	return sess, nil
}

// Get returns the game if it belongs to ownerID.
func (s *Service) Get(ctx context.Context, ownerID, gameID string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session.Get", trace.WithAttributes(
		attribute.String("player.id", ownerID),
		attribute.String("game.id", gameID),
	))
	defer span.End()

	sess, err := s.repo.FindByID(ctx, gameID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not find game")
		return nil, err
	}
	if sess.OwnerID != ownerID {
		span.SetStatus(codes.Error, "Game owned by another player")
		return nil, ErrNotFound
	}
	return sess, nil
}

// Play places the human's mark at index and, if the game goes on, the
// computer's reply.
func (s *Service) Play(ctx context.Context, ownerID, gameID string, index int) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session.Play", trace.WithAttributes(
		attribute.String("player.id", ownerID),
		attribute.String("game.id", gameID),
		attribute.Int("move.index", index),
	))
	defer span.End()

	sess, err := s.repo.Update(ctx, gameID, func(sess *Session) error {
		if sess.OwnerID != ownerID {
			return ErrNotFound
		}
		if err := sess.Game.Move(index, sess.Game.HumanMark); err != nil {
			return err
		}
		return s.playComputer(ctx, &sess.Game)
	})
	if err != nil {
		slog.WarnContext(ctx, "invalid move from player", "player.id", ownerID, "game.id", gameID, "move.index", index, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("move.valid", true), attribute.String("game.status", string(sess.Game.Outcome.Status)))

	if sess.Game.Outcome.IsOver() {
		slog.InfoContext(ctx, "Game finished", "game.id", gameID, "game.status", sess.Game.Outcome.Status, "game.winner", sess.Game.Outcome.Winner)
	}
	s.publish(ctx, gameID, events.TypeGameUpdated)
	return sess, nil
}

// Restart clears the board, keeping sides and difficulty.
func (s *Service) Restart(ctx context.Context, ownerID, gameID string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session.Restart", trace.WithAttributes(
		attribute.String("player.id", ownerID),
		attribute.String("game.id", gameID),
	))
	defer span.End()

	sess, err := s.repo.Update(ctx, gameID, func(sess *Session) error {
		if sess.OwnerID != ownerID {
			return ErrNotFound
		}
		sess.Game.Reset()
		return s.playComputer(ctx, &sess.Game)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to restart game")
		return nil, err
	}

	slog.InfoContext(ctx, "Game restarted", "game.id", gameID, "player.id", ownerID)
	s.publish(ctx, gameID, events.TypeGameUpdated)
	return sess, nil
}

// End deletes the game.
func (s *Service) End(ctx context.Context, ownerID, gameID string) error {
	ctx, span := tracer.Start(ctx, "session.End", trace.WithAttributes(
		attribute.String("player.id", ownerID),
		attribute.String("game.id", gameID),
	))
	defer span.End()

	if _, err := s.Get(ctx, ownerID, gameID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, gameID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete game")
		return err
	}

	slog.InfoContext(ctx, "Game ended", "game.id", gameID, "player.id", ownerID)
	s.publish(ctx, gameID, events.TypeGameEnded)
	return nil
}

// playComputer lets the computer move if it is its turn.
func (s *Service) playComputer(ctx context.Context, g *game.Game) error {
	if !g.IsComputerTurn() {
		return nil
	}
	idx, err := s.calc.CalculateNextMove(ctx, g.Board, g.ComputerMark(), g.Difficulty)
	if err != nil {
		return fmt.Errorf("failed to calculate computer move: %w", err)
	}
	if err := g.Move(idx, g.ComputerMark()); err != nil {
		return fmt.Errorf("computer chose illegal cell %d: %w", idx, err)
	}
	return nil
}

// publish notifies subscribers. Failures are logged, not returned: the game
// state is already stored.
func (s *Service) publish(ctx context.Context, gameID, eventType string) {
	event, err := events.NewEvent(eventType, events.GamePayload{GameID: gameID})
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", "game.id", gameID, "event.type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, events.GameChannel(gameID), event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "game.id", gameID, "event.type", eventType, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}
