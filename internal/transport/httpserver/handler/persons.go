package handler

import (
	"net/http"

	"family-dues-go/internal/domain/access"
	persondomain "family-dues-go/internal/domain/person"
)

type personRequest struct {
	FamilyID  *string `json:"familyId" validate:"omitempty,uuid"`
	RamaID    *string `json:"ramaId" validate:"omitempty,uuid"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	DNI       *string `json:"dni" validate:"omitempty,max=20"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

func (req personRequest) input() persondomain.Input {
	return persondomain.Input{
		FamilyID:  req.FamilyID,
		RamaID:    req.RamaID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Email:     req.Email,
		Phone:     req.Phone,
	}
}

func (h *Handlers) ListPersons(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "persons.list", err)
		return
	}

	base := access.Filter{}
	if familyID := queryString(r, "familyId"); familyID != nil {
		base[access.KeyFamilyID] = *familyID
	}
	if ramaID := queryString(r, "ramaId"); ramaID != nil {
		base[access.KeyRamaID] = *ramaID
	}

	persons, err := h.Persons.List(r.Context(), session, base)
	if err != nil {
		h.fail(w, r, "persons.list", err)
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func (h *Handlers) GetPerson(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "persons.get", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "persons.get", err)
		return
	}

	person, err := h.Persons.Get(r.Context(), session, id)
	if err != nil {
		h.fail(w, r, "persons.get", err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *Handlers) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "persons.create", err)
		return
	}

	person, err := h.Persons.Create(r.Context(), req.input())
	if err != nil {
		h.fail(w, r, "persons.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

func (h *Handlers) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "persons.update", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "persons.update", err)
		return
	}
	var req personRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "persons.update", err)
		return
	}

	person, err := h.Persons.Update(r.Context(), session, id, req.input())
	if err != nil {
		h.fail(w, r, "persons.update", err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *Handlers) DeletePerson(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "persons.delete", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "persons.delete", err)
		return
	}

	if err := h.Persons.Delete(r.Context(), session, id); err != nil {
		h.fail(w, r, "persons.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
