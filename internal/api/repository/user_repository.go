package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ctchen222/tictactoe-minimax/internal/api/models"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

var tracer = otel.Tracer("api/repository")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// CreateUser hashes the password and inserts a new user into the database.
func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateUser", trace.WithAttributes(
		attribute.String("user.name", user.Username),
		attribute.String("player.id", user.PlayerID),
	))
	defer span.End()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	query := `INSERT INTO users (player_id, username, password_hash) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.PlayerID, user.Username, user.PasswordHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert user")
		return fmt.Errorf("failed to create user: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		user.ID = id
	}
	return nil
}

// GetUserByUsername retrieves a user from the database by their username.
func (r *sqliteUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByUsername", trace.WithAttributes(
		attribute.String("user.name", username),
	))
	defer span.End()

	var user models.User
	query := `SELECT id, player_id, username, password_hash FROM users WHERE username = ?`
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query user")
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}
