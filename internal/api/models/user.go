package models

// User is a registered account. PlayerID is the identity games are owned by;
// guests get a PlayerID without a User row.
type User struct {
	ID           int64  `db:"id"`
	PlayerID     string `db:"player_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token for the game endpoints.
type LoginResponse struct {
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}
