package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/tictactoe-minimax/internal/api/controller"
	"ctchen222/tictactoe-minimax/internal/api/middleware"
	"ctchen222/tictactoe-minimax/internal/events"
	"ctchen222/tictactoe-minimax/internal/player"
	"ctchen222/tictactoe-minimax/internal/session"
	"ctchen222/tictactoe-minimax/internal/validator"
	"ctchen222/tictactoe-minimax/pkg/proto"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleGameSocket streams a game to its owner and accepts moves over the
// same connection. Updates are driven by the game's event channel, so every
// connection watching the game sees changes made through the REST API too.
func (s *Server) handleGameSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleGameSocket", trace.WithAttributes(
		attribute.String("game.id", c.Param("id")),
	))
	defer span.End()

	playerID := middleware.PlayerID(c)
	gameID := c.Param("id")
	span.SetAttributes(attribute.String("player.id", playerID))

	sess, err := s.games.Get(ctx, playerID, gameID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not load game")
		controller.RespondError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates, unsubscribe, err := s.bus.Subscribe(ctx, events.GameChannel(gameID))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to subscribe to game events", "game.id", gameID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to subscribe to game events")
		controller.RespondError(c, err)
		return
	}
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "player.id", playerID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	p := player.NewPlayer(playerID, gameID, conn)
	defer p.Close()

	slog.InfoContext(ctx, "Player connected", "player.id", playerID, "game.id", gameID)
	if err := p.Send(&proto.ServerToClientMessage{Type: proto.TypeUpdate, Game: proto.NewGameView(sess)}); err != nil {
		slog.WarnContext(ctx, "Failed to send initial state", "player.id", playerID, "error", err)
		return
	}

	go s.readPump(ctx, cancel, p)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Player disconnected", "player.id", playerID, "game.id", gameID)
			return
		case event, ok := <-updates:
			if !ok {
				return
			}
			if done := s.forwardEvent(ctx, p, event); done {
				return
			}
		}
	}
}

// forwardEvent pushes the state behind event to p. It reports whether the
// stream is finished.
func (s *Server) forwardEvent(ctx context.Context, p *player.Player, event events.Event) bool {
	ctx, span := tracer.Start(ctx, "server.forwardEvent", trace.WithAttributes(
		attribute.String("game.id", p.GameID),
		attribute.String("event.type", event.Type),
	))
	defer span.End()

	switch event.Type {
	case events.TypeGameEnded:
		if err := p.Send(&proto.ServerToClientMessage{Type: proto.TypeEnded}); err != nil {
			span.RecordError(err)
		}
		return true
	case events.TypeGameUpdated:
		sess, err := s.games.Get(ctx, p.ID, p.GameID)
		if errors.Is(err, session.ErrNotFound) {
			if err := p.Send(&proto.ServerToClientMessage{Type: proto.TypeEnded}); err != nil {
				span.RecordError(err)
			}
			return true
		}
		if err != nil {
			slog.ErrorContext(ctx, "Could not load game for update", "game.id", p.GameID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not load game")
			return false
		}
		if err := p.Send(&proto.ServerToClientMessage{Type: proto.TypeUpdate, Game: proto.NewGameView(sess)}); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to send update")
			return true
		}
		return false
	default:
		slog.WarnContext(ctx, "Ignoring unknown event", "event.type", event.Type)
		return false
	}
}

// readPump reads client messages until the connection fails, then cancels the
// stream.
func (s *Server) readPump(ctx context.Context, cancel context.CancelFunc, p *player.Player) {
	defer cancel()
	for {
		raw, err := p.Read()
		if err != nil {
			if ctx.Err() == nil {
				slog.DebugContext(ctx, "Player connection closed", "player.id", p.ID, "error", err)
			}
			return
		}
		s.handleMessage(ctx, p, raw)
	}
}

// handleMessage dispatches one client message. Failures are reported to the
// client as error messages; successful changes reach it through the event
// stream.
func (s *Server) handleMessage(ctx context.Context, p *player.Player, raw []byte) {
	ctx, span := tracer.Start(ctx, "server.handleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("game.id", p.GameID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		s.sendError(ctx, p, "malformed message")
		return
	}
	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		s.sendError(ctx, p, err.Error())
		return
	}
	span.SetAttributes(attribute.String("message.type", message.Type))

	var err error
	switch message.Type {
	case proto.TypeMove:
		if message.Index == nil {
			s.sendError(ctx, p, "move requires an index")
			return
		}
		_, err = s.games.Play(ctx, p.ID, p.GameID, *message.Index)
	case proto.TypeRestart:
		_, err = s.games.Restart(ctx, p.ID, p.GameID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Message rejected")
		s.sendError(ctx, p, err.Error())
	}
}

func (s *Server) sendError(ctx context.Context, p *player.Player, reason string) {
	if err := p.Send(&proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason}); err != nil {
		slog.WarnContext(ctx, "Failed to send error to player", "player.id", p.ID, "error", err)
	}
}
