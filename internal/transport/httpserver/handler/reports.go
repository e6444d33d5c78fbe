package handler

import (
	"net/http"
	"strconv"

	"family-dues-go/internal/domain/access"
	statsdomain "family-dues-go/internal/domain/stats"
	"family-dues-go/internal/scheduler"
	"github.com/go-chi/chi/v5"
)

type stopResponse struct {
	scheduler.Status
	Drained bool `json:"drained"`
}

func (h *Handlers) Cobrabilidad(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(chi.URLParam(r, "mes"))
	if err != nil {
		h.fail(w, r, "stats.cobrabilidad", statsdomain.ErrInvalidMonth)
		return
	}
	year, err := strconv.Atoi(chi.URLParam(r, "anio"))
	if err != nil {
		h.fail(w, r, "stats.cobrabilidad", statsdomain.ErrInvalidYear)
		return
	}

	rates, err := h.Stats.Cobrabilidad(r.Context(), month, year)
	if err != nil {
		h.fail(w, r, "stats.cobrabilidad", err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// RunMonthlyUpdate triggers the updater immediately. Partial per-family
// failures still answer 200; the counts are in the body and the action log.
func (h *Handlers) RunMonthlyUpdate(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "cron.run_monthly_update", err)
		return
	}

	result, err := h.Monthly.TriggerManually(r.Context(), access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "cron.run_monthly_update", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) MonthlyStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Monthly.Status())
}

func (h *Handlers) StartMonthly(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Monthly.Start())
}

// StopMonthly deregisters the trigger. A run already in flight keeps going;
// drained reports whether it had finished by the time the response is built.
func (h *Handlers) StopMonthly(w http.ResponseWriter, r *http.Request) {
	status, done := h.Monthly.Stop()
	drained := false
	select {
	case <-done.Done():
		drained = true
	default:
	}
	writeJSON(w, http.StatusOK, stopResponse{Status: status, Drained: drained})
}
