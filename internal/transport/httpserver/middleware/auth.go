package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	"family-dues-go/pkg/logger"
)

// TokenParser turns a bearer token into the session it was issued for.
type TokenParser interface {
	Parse(token string) (*access.SessionUser, error)
}

type BearerAuth struct {
	tokens TokenParser
	log    logger.Logger
}

func NewBearerAuth(tokens TokenParser, log logger.Logger) *BearerAuth {
	return &BearerAuth{tokens: tokens, log: log}
}

func (a *BearerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "token requerido")
			return
		}

		session, err := a.tokens.Parse(token)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err, "path", r.URL.Path)
			unauthorized(w, apperr.MessageOf(err))
			return
		}

		ctx := access.WithSessionUser(r.Context(), *session)
		ctx = logger.ContextWith(ctx, "user_id", session.ID, "role", string(session.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles lets the request through only when the session carries one of
// the given roles. It must run after BearerAuth.
func RequireRoles(roles ...access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := access.SessionUserFromContext(r.Context())
			if !ok {
				unauthorized(w, apperr.ErrUnauthorized.Message)
				return
			}
			if !session.HasRole(roles...) {
				writeError(w, http.StatusForbidden, string(apperr.KindForbidden), apperr.ErrForbidden.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, string(apperr.KindUnauthorized), message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
