package handler

import (
	"net/http"

	"family-dues-go/internal/domain/access"
	familydomain "family-dues-go/internal/domain/family"
	"github.com/shopspring/decimal"
)

type createFamilyRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Phone         *string          `json:"phone" validate:"omitempty,max=50"`
	RamaID        *string          `json:"ramaId" validate:"omitempty,uuid"`
	IsCustomCuota bool             `json:"isCustomCuota"`
	CustomBalance *decimal.Decimal `json:"customBalance"`
}

type updateFamilyRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone  *string `json:"phone" validate:"omitempty,max=50"`
	RamaID *string `json:"ramaId" validate:"omitempty,uuid"`
}

type balanceRequest struct {
	CuotaBalance  *decimal.Decimal `json:"cuotaBalance"`
	CFABalance    *decimal.Decimal `json:"cfaBalance"`
	CustomBalance *decimal.Decimal `json:"customBalance"`
	CustomCFA     *decimal.Decimal `json:"customCfa"`
	IsCustomCuota *bool            `json:"isCustomCuota"`
	IsCustomCFA   *bool            `json:"isCustomCfa"`
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "families.list", err)
		return
	}

	base := access.Filter{}
	if ramaID := queryString(r, "ramaId"); ramaID != nil {
		base[access.KeyRamaID] = *ramaID
	}

	families, err := h.Families.List(r.Context(), session, base)
	if err != nil {
		h.fail(w, r, "families.list", err)
		return
	}
	writeJSON(w, http.StatusOK, families)
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "families.get", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "families.get", err)
		return
	}

	family, err := h.Families.Get(r.Context(), session, id)
	if err != nil {
		h.fail(w, r, "families.get", err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "families.create", err)
		return
	}
	var req createFamilyRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "families.create", err)
		return
	}

	input := familydomain.CreateInput{
		Name:          req.Name,
		Phone:         req.Phone,
		RamaID:        req.RamaID,
		IsCustomCuota: req.IsCustomCuota,
	}
	if req.CustomBalance != nil {
		input.CustomBalance = *req.CustomBalance
	}

	family, err := h.Families.Create(r.Context(), input, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "families.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, family)
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "families.update", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "families.update", err)
		return
	}
	var req updateFamilyRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "families.update", err)
		return
	}

	family, err := h.Families.Update(r.Context(), session, id, familydomain.UpdateInput{
		Name:   req.Name,
		Phone:  req.Phone,
		RamaID: req.RamaID,
	})
	if err != nil {
		h.fail(w, r, "families.update", err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "families.delete", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "families.delete", err)
		return
	}

	if err := h.Families.Delete(r.Context(), id, access.ActorFromSession(session)); err != nil {
		h.fail(w, r, "families.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "balance.get", err)
		return
	}

	balance, err := h.Families.GetBalance(r.Context(), id)
	if err != nil {
		h.fail(w, r, "balance.get", err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetFamilyBalance resolves the balance through the family, so the caller's
// role scope applies before the balance is read.
func (h *Handlers) GetFamilyBalance(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "balance.get_by_family", err)
		return
	}
	familyID, err := pathID(r, "familyID")
	if err != nil {
		h.fail(w, r, "balance.get_by_family", err)
		return
	}

	if _, err := h.Families.Get(r.Context(), session, familyID); err != nil {
		h.fail(w, r, "balance.get_by_family", err)
		return
	}
	balance, err := h.Families.GetBalanceByFamily(r.Context(), familyID)
	if err != nil {
		h.fail(w, r, "balance.get_by_family", err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *Handlers) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "balance.update", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "balance.update", err)
		return
	}
	var req balanceRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "balance.update", err)
		return
	}

	balance, err := h.Families.EditBalance(r.Context(), id, familydomain.BalanceInput{
		CuotaBalance:  req.CuotaBalance,
		CFABalance:    req.CFABalance,
		CustomBalance: req.CustomBalance,
		CustomCFA:     req.CustomCFA,
		IsCustomCuota: req.IsCustomCuota,
		IsCustomCFA:   req.IsCustomCFA,
	}, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "balance.update", err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}
