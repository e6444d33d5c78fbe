package handler

import (
	"net/http"

	"family-dues-go/internal/domain/access"
	cuotadomain "family-dues-go/internal/domain/cuota"
	"github.com/shopspring/decimal"
)

type cuotaRequest struct {
	Value    decimal.Decimal `json:"value"`
	CFA      decimal.Decimal `json:"cfa"`
	IsActive bool            `json:"isActive"`
}

type overrideRequest struct {
	Cantidad int             `json:"cantidad" validate:"required,gt=0"`
	Valor    decimal.Decimal `json:"valor"`
}

func (h *Handlers) ListCuotas(w http.ResponseWriter, r *http.Request) {
	cuotas, err := h.Cuotas.List(r.Context())
	if err != nil {
		h.fail(w, r, "cuota.list", err)
		return
	}
	writeJSON(w, http.StatusOK, cuotas)
}

func (h *Handlers) GetActiveCuota(w http.ResponseWriter, r *http.Request) {
	cuota, err := h.Cuotas.Active(r.Context())
	if err != nil {
		h.fail(w, r, "cuota.active", err)
		return
	}
	writeJSON(w, http.StatusOK, cuota)
}

func (h *Handlers) GetCuota(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "cuota.get", err)
		return
	}

	cuota, err := h.Cuotas.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "cuota.get", err)
		return
	}
	writeJSON(w, http.StatusOK, cuota)
}

func (h *Handlers) CreateCuota(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "cuota.create", err)
		return
	}
	var req cuotaRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "cuota.create", err)
		return
	}

	cuota, err := h.Cuotas.Create(r.Context(), cuotadomain.Input{
		Value:    req.Value,
		CFA:      req.CFA,
		IsActive: req.IsActive,
	}, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "cuota.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, cuota)
}

func (h *Handlers) UpdateCuota(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "cuota.update", err)
		return
	}
	var req cuotaRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "cuota.update", err)
		return
	}

	cuota, err := h.Cuotas.Update(r.Context(), id, cuotadomain.Input{
		Value:    req.Value,
		CFA:      req.CFA,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.fail(w, r, "cuota.update", err)
		return
	}
	writeJSON(w, http.StatusOK, cuota)
}

func (h *Handlers) ActivateCuota(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "cuota.activate", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "cuota.activate", err)
		return
	}

	cuota, err := h.Cuotas.Activate(r.Context(), id, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "cuota.activate", err)
		return
	}
	writeJSON(w, http.StatusOK, cuota)
}

func (h *Handlers) DeleteCuota(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "cuota.delete", err)
		return
	}

	if err := h.Cuotas.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "cuota.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Cuotas.ListOverrides(r.Context())
	if err != nil {
		h.fail(w, r, "cuota.hermanos.list", err)
		return
	}
	writeJSON(w, http.StatusOK, overrides)
}

func (h *Handlers) GetOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "cuota.hermanos.get", err)
		return
	}

	override, err := h.Cuotas.GetOverride(r.Context(), id)
	if err != nil {
		h.fail(w, r, "cuota.hermanos.get", err)
		return
	}
	writeJSON(w, http.StatusOK, override)
}

func (h *Handlers) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "cuota.hermanos.create", err)
		return
	}

	override, err := h.Cuotas.CreateOverride(r.Context(), cuotadomain.OverrideInput{Cantidad: req.Cantidad, Valor: req.Valor})
	if err != nil {
		h.fail(w, r, "cuota.hermanos.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, override)
}

func (h *Handlers) UpdateOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "cuota.hermanos.update", err)
		return
	}
	var req overrideRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "cuota.hermanos.update", err)
		return
	}

	override, err := h.Cuotas.UpdateOverride(r.Context(), id, cuotadomain.OverrideInput{Cantidad: req.Cantidad, Valor: req.Valor})
	if err != nil {
		h.fail(w, r, "cuota.hermanos.update", err)
		return
	}
	writeJSON(w, http.StatusOK, override)
}

func (h *Handlers) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "cuota.hermanos.delete", err)
		return
	}

	if err := h.Cuotas.DeleteOverride(r.Context(), id); err != nil {
		h.fail(w, r, "cuota.hermanos.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
