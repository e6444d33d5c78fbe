package handler

import (
	"net/http"

	"family-dues-go/internal/domain/access"
	userdomain "family-dues-go/internal/domain/user"
)

type createUserRequest struct {
	Username  string  `json:"username" validate:"required,max=100"`
	Password  string  `json:"password" validate:"required,min=8"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Name      string  `json:"name" validate:"required,max=200"`
	Role      string  `json:"role" validate:"required"`
	RamaID    *string `json:"ramaId" validate:"omitempty,uuid"`
	FamilyID  *string `json:"familyId" validate:"omitempty,uuid"`
	IsActive  *bool   `json:"isActive"`
	IsGranted bool    `json:"isGranted"`
}

type updateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Role      *string `json:"role"`
	RamaID    *string `json:"ramaId" validate:"omitempty,uuid"`
	FamilyID  *string `json:"familyId" validate:"omitempty,uuid"`
	IsActive  *bool   `json:"isActive"`
	IsGranted *bool   `json:"isGranted"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "users.list", err)
		return
	}

	base := access.Filter{}
	if role := queryString(r, "role"); role != nil {
		parsed, err := access.ParseRole(*role)
		if err != nil {
			h.fail(w, r, "users.list", err)
			return
		}
		base["role"] = string(parsed)
	}
	active, err := parseBoolParam(r.URL.Query().Get("isActive"))
	if err != nil {
		h.fail(w, r, "users.list", err)
		return
	}
	if active != nil {
		base["is_active"] = *active
	}

	users, err := h.Users.List(r.Context(), session, base)
	if err != nil {
		h.fail(w, r, "users.list", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "users.get", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "users.get", err)
		return
	}

	user, err := h.Users.Get(r.Context(), session, id)
	if err != nil {
		h.fail(w, r, "users.get", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "users.create", err)
		return
	}
	var req createUserRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "users.create", err)
		return
	}

	user, err := h.Users.Create(r.Context(), userdomain.CreateInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		RamaID:    req.RamaID,
		FamilyID:  req.FamilyID,
		IsActive:  req.IsActive,
		IsGranted: req.IsGranted,
	}, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "users.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "users.update", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "users.update", err)
		return
	}
	var req updateUserRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "users.update", err)
		return
	}

	user, err := h.Users.Update(r.Context(), session, id, userdomain.UpdateInput{
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		Role:      req.Role,
		RamaID:    req.RamaID,
		FamilyID:  req.FamilyID,
		IsActive:  req.IsActive,
		IsGranted: req.IsGranted,
	})
	if err != nil {
		h.fail(w, r, "users.update", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "users.delete", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "users.delete", err)
		return
	}

	if err := h.Users.Delete(r.Context(), session, id); err != nil {
		h.fail(w, r, "users.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
