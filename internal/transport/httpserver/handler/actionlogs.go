package handler

import (
	"net/http"
	"strings"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	actionlogdomain "family-dues-go/internal/domain/actionlog"
)

var errForeignActor = apperr.Forbidden("solo MASTER puede registrar acciones a nombre de otro actor")

type createActionLogRequest struct {
	ActionType    string                   `json:"actionType" validate:"required"`
	Status        string                   `json:"status" validate:"omitempty,oneof=PENDING SUCCESS ERROR"`
	ActorID       *string                  `json:"actorId"`
	Message       *string                  `json:"message" validate:"omitempty,max=2000"`
	TargetTable   *string                  `json:"targetTable" validate:"omitempty,max=100"`
	TargetID      *string                  `json:"targetId" validate:"omitempty,max=100"`
	FamilyID      *string                  `json:"familyId" validate:"omitempty,uuid"`
	TransactionID *string                  `json:"transactionId" validate:"omitempty,uuid"`
	RequestID     *string                  `json:"requestId" validate:"omitempty,max=100"`
	Metadata      actionlogdomain.Metadata `json:"metadata"`
}

// requestActor picks the actor for a POSTed log: the session user unless an
// explicit actor id is supplied, which only MASTER may do for someone else.
func requestActor(session *access.SessionUser, actorID *string) (access.Actor, error) {
	if actorID == nil || strings.TrimSpace(*actorID) == "" {
		return access.ActorFromSession(session), nil
	}

	id := strings.TrimSpace(*actorID)
	if id == session.ID {
		return access.UserActor(id), nil
	}
	if !session.HasRole(access.RoleMaster) {
		return access.Actor{}, errForeignActor
	}
	if strings.EqualFold(id, access.SystemActorID) {
		return access.SystemActor(), nil
	}
	return access.UserActor(id), nil
}

func (h *Handlers) CreateActionLog(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "action_logs.create", err)
		return
	}
	var req createActionLogRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "action_logs.create", err)
		return
	}

	actionType := actionlogdomain.ActionType(strings.ToUpper(req.ActionType))
	if !actionType.Valid() {
		h.fail(w, r, "action_logs.create", actionlogdomain.ErrInvalidActionType)
		return
	}
	actor, err := requestActor(session, req.ActorID)
	if err != nil {
		h.fail(w, r, "action_logs.create", err)
		return
	}

	log, err := h.ActionLogs.CreateIfAbsentByKey(r.Context(), actionlogdomain.CreateInput{
		ActionType: actionType,
		Status:     actionlogdomain.Status(req.Status),
		Message:    req.Message,
		Extra: actionlogdomain.Extra{
			TargetTable:   req.TargetTable,
			TargetID:      req.TargetID,
			FamilyID:      req.FamilyID,
			TransactionID: req.TransactionID,
			RequestID:     req.RequestID,
			Metadata:      req.Metadata,
		},
	}, actor)
	if err != nil {
		h.fail(w, r, "action_logs.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (h *Handlers) ListActionLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := actionlogdomain.ListFilter{
		ActorID:     queryString(r, "actorId"),
		TargetTable: queryString(r, "targetTable"),
		TargetID:    queryString(r, "targetId"),
		Order:       actionlogdomain.SortOrder(strings.ToLower(query.Get("order"))),
	}
	if value := queryString(r, "actionType"); value != nil {
		actionType := actionlogdomain.ActionType(strings.ToUpper(*value))
		filter.ActionType = &actionType
	}
	if value := queryString(r, "status"); value != nil {
		status := actionlogdomain.Status(strings.ToUpper(*value))
		filter.Status = &status
	}

	var err error
	if filter.From, err = parseTimeParam(query.Get("from"), h.loc); err != nil {
		h.fail(w, r, "action_logs.list", err)
		return
	}
	if filter.To, err = parseTimeParam(query.Get("to"), h.loc); err != nil {
		h.fail(w, r, "action_logs.list", err)
		return
	}
	if filter.Take, err = parseIntParam(query.Get("take"), 0); err != nil {
		h.fail(w, r, "action_logs.list", err)
		return
	}
	if filter.Skip, err = parseIntParam(query.Get("skip"), 0); err != nil {
		h.fail(w, r, "action_logs.list", err)
		return
	}

	page, err := h.ActionLogs.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "action_logs.list", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) GetActionLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "action_logs.get", err)
		return
	}

	log, err := h.ActionLogs.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "action_logs.get", err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}
