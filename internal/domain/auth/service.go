package auth

import (
	"context"
	"errors"
	"time"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/user"
	"family-dues-go/pkg/logger"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	Get(ctx context.Context, session *access.SessionUser, id string) (*user.User, error)
}

type TokenIssuer interface {
	Issue(session access.SessionUser) (string, time.Time, error)
}

type PasswordVerifier interface {
	Compare(hash, password string) bool
}

type Service struct {
	users     UserReader
	tokens    TokenIssuer
	passwords PasswordVerifier
	log       logger.Logger
}

func NewService(users UserReader, tokens TokenIssuer, passwords PasswordVerifier, log logger.Logger) *Service {
	return &Service{users: users, tokens: tokens, passwords: passwords, log: log}
}

// Login checks the credentials and issues a token. Unknown usernames and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, credentials Credentials) (*LoginResult, error) {
	if credentials.Username == "" || credentials.Password == "" {
		return nil, ErrInvalidCredentials
	}

	found, err := s.users.GetByUsername(ctx, credentials.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.passwords.Compare(found.PasswordHash, credentials.Password) {
		s.log.BusinessError("auth.login: wrong password", ErrInvalidCredentials, "username", found.Username)
		return nil, ErrInvalidCredentials
	}
	if !found.IsActive {
		return nil, ErrInactiveUser
	}

	token, expiresAt, err := s.tokens.Issue(found.Session())
	if err != nil {
		return nil, err
	}

	s.log.Info("auth.login: ok", "user_id", found.ID, "role", found.Role)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: *found}, nil
}

// Me returns the current state of the session's user.
func (s *Service) Me(ctx context.Context, session *access.SessionUser) (*user.User, error) {
	if session == nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.users.Get(ctx, session, session.ID)
}
