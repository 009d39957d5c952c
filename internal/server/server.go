package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe-minimax/internal/api/controller"
	"ctchen222/tictactoe-minimax/internal/api/middleware"
	"ctchen222/tictactoe-minimax/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Subscriber streams the events published on a channel.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan events.Event, func() error, error)
}

type Server struct {
	engine   *gin.Engine
	games    controller.GameService
	bus      Subscriber
	upgrader websocket.Upgrader
}

// NewServer wires the HTTP routes and the game websocket.
func NewServer(users *controller.UserController, games controller.GameService, tokens middleware.TokenParser, bus Subscriber) *Server {
	s := &Server{
		engine: gin.New(),
		games:  games,
		bus:    bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery(), traceRequests(), logRequests())
	s.registerRoutes(users, tokens)
	return s
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes(users *controller.UserController, tokens middleware.TokenParser) {
	gameController := controller.NewGameController(s.games)
	engineController := controller.NewEngineController()

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := s.engine.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/guest", users.GuestLogin)
		auth.POST("/register", users.Register)
		auth.POST("/login", users.Login)

		api.POST("/evaluate", engineController.Evaluate)
		api.POST("/best-move", engineController.BestMove)

		games := api.Group("/games", middleware.Auth(tokens))
		games.POST("", gameController.Create)
		games.GET("/:id", gameController.Get)
		games.DELETE("/:id", gameController.Delete)
		games.POST("/:id/moves", gameController.Move)
		games.POST("/:id/restart", gameController.Restart)
	}

	s.engine.GET("/ws/games/:id", middleware.Auth(tokens), s.handleGameSocket)
}

// traceRequests starts a server span per request, continuing any trace the
// caller propagated.
func traceRequests() gin.HandlerFunc {
	propagator := otel.GetTextMapPropagator()
	return func(c *gin.Context) {
		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
				attribute.String("http.url", c.Request.URL.String()),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

func logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.route", c.FullPath(),
			"http.status_code", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
