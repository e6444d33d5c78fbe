package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	"github.com/go-playground/validator/v10"
)

var errSessionMissing = apperr.Unauthorized("sesión requerida")

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindBadRequest, apperr.KindInvalidActor:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes the error envelope for its kind. Unclassified
// errors become a 500 with the generic message.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := apperr.KindOf(err)
	log := h.log.Ctx(r.Context())
	if kind == apperr.KindInternal {
		log.InternalError(op+" failed", err, "path", r.URL.Path)
	} else {
		log.BusinessError(op+" rejected", err, "path", r.URL.Path)
	}
	writeError(w, statusFor(kind), string(kind), apperr.MessageOf(err))
}

func (h *Handlers) session(r *http.Request) (*access.SessionUser, error) {
	session, ok := access.SessionUserFromContext(r.Context())
	if !ok {
		return nil, errSessionMissing
	}
	return session, nil
}

// decode reads a JSON body into dst and runs the struct's validate tags.
func (h *Handlers) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.BadRequest("el cuerpo de la solicitud es obligatorio")
		}
		return apperr.BadRequest("json inválido")
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return apperr.BadRequest(fmt.Sprintf("campo %s inválido (%s)", fieldErrs[0].Field(), fieldErrs[0].Tag()))
		}
		return apperr.BadRequest("datos inválidos")
	}
	return nil
}
