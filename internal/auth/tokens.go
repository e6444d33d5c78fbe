// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "family-dues"

var (
	ErrInvalidToken = apperr.Unauthorized("token inválido")
	ErrExpiredToken = apperr.Unauthorized("token expirado")
)

type Claims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Role     access.Role `json:"role"`
	RamaID   *string     `json:"rama_id,omitempty"`
	FamilyID *string     `json:"family_id,omitempty"`
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token carrying the session identity.
func (s *TokenService) Issue(user access.SessionUser) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: user.Username,
		Role:     user.Role,
		RamaID:   user.RamaID,
		FamilyID: user.FamilyID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies the token and returns the identity it carries.
func (s *TokenService) Parse(token string) (*access.SessionUser, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if _, err := access.ParseRole(string(claims.Role)); err != nil {
		return nil, ErrInvalidToken
	}

	return &access.SessionUser{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
		RamaID:   claims.RamaID,
		FamilyID: claims.FamilyID,
	}, nil
}
