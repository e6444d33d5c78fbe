package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"family-dues-go/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// pathID returns the named URL parameter, which must be a UUID.
func pathID(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", apperr.BadRequest("falta el identificador " + name)
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", apperr.BadRequest("identificador " + name + " inválido")
	}
	return value, nil
}

func queryString(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil
	}
	return &value
}

// parseTimeParam accepts either a plain date or an RFC 3339 timestamp.
func parseTimeParam(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperr.BadRequest("fecha inválida: " + value)
	}
	return &parsed, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, apperr.BadRequest("número inválido: " + value)
	}
	return parsed, nil
}

func parseBoolParam(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, apperr.BadRequest("valor booleano inválido: " + value)
	}
	return &parsed, nil
}
