package auth

import (
	"time"

	"family-dues-go/internal/domain/user"
)

type Credentials struct {
	Username string
	Password string
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      user.User `json:"user"`
}
