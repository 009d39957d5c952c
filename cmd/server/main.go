package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/tictactoe-minimax/internal/api/controller"
	"ctchen222/tictactoe-minimax/internal/api/repository"
	"ctchen222/tictactoe-minimax/internal/api/service"
	"ctchen222/tictactoe-minimax/internal/bot"
	"ctchen222/tictactoe-minimax/internal/config"
	"ctchen222/tictactoe-minimax/internal/db"
	"ctchen222/tictactoe-minimax/internal/events"
	"ctchen222/tictactoe-minimax/internal/logger"
	"ctchen222/tictactoe-minimax/internal/server"
	"ctchen222/tictactoe-minimax/internal/session"
	"ctchen222/tictactoe-minimax/internal/telemetry"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	// Initialize Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		slog.Error("failed to initialize redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Initialize SQLite DB
	sqlDB, err := db.Connect(ctx, cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to initialize sqlite db", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Create repositories
	sessionRepo := session.NewRedisRepository(rdb, cfg.GameTTL)
	userRepo := repository.NewUserRepository(sqlDB)

	// Create services
	calculator, err := bot.NewCalculator(cfg.ParallelSearch)
	if err != nil {
		slog.Error("failed to create move calculator", "error", err)
		os.Exit(1)
	}
	bus := events.NewRedisBus(rdb)
	gameService := session.NewService(sessionRepo, calculator, bus)
	userService := service.NewUserService(userRepo, cfg.JWTSecret)

	// Create controllers
	userController := controller.NewUserController(userService)

	// Create the Gin-based server
	srv := server.NewServer(userController, gameService, userService, bus)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe failed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
