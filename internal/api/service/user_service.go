package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ctchen222/tictactoe-minimax/internal/api/models"
	"ctchen222/tictactoe-minimax/internal/api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 72 * time.Hour

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GuestLogin(ctx context.Context) (*models.LoginResponse, error)
	// ParseToken validates a token and returns the player ID it was issued to.
	ParseToken(tokenString string) (string, error)
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

// NewUserService creates a new UserService signing tokens with jwtSecret.
func NewUserService(userRepo repository.UserRepository, jwtSecret []byte) UserService {
	return &userService{userRepo: userRepo, jwtSecret: jwtSecret}
}

// Register handles user registration.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) error {
	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existingUser != nil {
		return ErrUsernameTaken
	}

	user := &models.User{
		PlayerID: uuid.New().String(),
		Username: req.Username,
	}
	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		return err
	}
	slog.InfoContext(ctx, "User registered", "user.name", user.Username, "player.id", user.PlayerID)
	return nil
}

// Login handles user login and returns a JWT on success.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.PlayerID, user.Username)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{PlayerID: user.PlayerID, Token: token}, nil
}

// GuestLogin generates a UUID for a guest player and a token for it.
func (s *userService) GuestLogin(ctx context.Context) (*models.LoginResponse, error) {
	playerID := uuid.New().String()
	token, err := s.issueToken(playerID, "")
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Guest logged in", "player.id", playerID)
	return &models.LoginResponse{PlayerID: playerID, Token: token}, nil
}

func (s *userService) issueToken(playerID, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": playerID,
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}
	if username != "" {
		claims["un"] = username
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken validates the signature and expiry and returns the subject.
func (s *userService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
