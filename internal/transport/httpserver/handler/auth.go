package handler

import (
	"net/http"

	authdomain "family-dues-go/internal/domain/auth"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "auth.login", err)
		return
	}

	result, err := h.Auth.Login(r.Context(), authdomain.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		h.fail(w, r, "auth.login", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "auth.me", err)
		return
	}

	user, err := h.Auth.Me(r.Context(), session)
	if err != nil {
		h.fail(w, r, "auth.me", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
