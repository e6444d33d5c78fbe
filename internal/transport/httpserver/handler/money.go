package handler

import (
	"net/http"
	"strings"
	"time"

	"family-dues-go/internal/domain/access"
	paymentdomain "family-dues-go/internal/domain/payment"
	transactiondomain "family-dues-go/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

type createTransactionRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Direction     string          `json:"direction" validate:"required,oneof=INCOME EXPENSE"`
	Category      string          `json:"category" validate:"required"`
	FamilyID      *string         `json:"familyId" validate:"omitempty,uuid"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,max=50"`
	Date          string          `json:"date"`
	Description   *string         `json:"description" validate:"omitempty,max=500"`
}

type createPaymentRequest struct {
	FamilyID      string          `json:"familyId" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	Concept       string          `json:"concept" validate:"required,oneof=CUOTA CFA"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,max=50"`
	PaidAt        string          `json:"paidAt"`
	Description   *string         `json:"description" validate:"omitempty,max=500"`
	RequestID     *string         `json:"requestId" validate:"omitempty,max=100"`
}

// dateOrNow parses an optional body date; a blank value means now.
func (h *Handlers) dateOrNow(value string) (time.Time, error) {
	parsed, err := parseTimeParam(value, h.loc)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		return time.Now().In(h.loc), nil
	}
	return *parsed, nil
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := transactiondomain.ListFilter{FamilyID: queryString(r, "familyId")}

	if value := queryString(r, "direction"); value != nil {
		direction := transactiondomain.Direction(strings.ToUpper(*value))
		filter.Direction = &direction
	}
	if value := queryString(r, "category"); value != nil {
		category := transactiondomain.Category(strings.ToUpper(*value))
		filter.Category = &category
	}

	var err error
	if filter.From, err = parseTimeParam(query.Get("from"), h.loc); err != nil {
		h.fail(w, r, "transactions.list", err)
		return
	}
	if filter.To, err = parseTimeParam(query.Get("to"), h.loc); err != nil {
		h.fail(w, r, "transactions.list", err)
		return
	}
	if filter.Take, err = parseIntParam(query.Get("take"), 0); err != nil {
		h.fail(w, r, "transactions.list", err)
		return
	}
	if filter.Skip, err = parseIntParam(query.Get("skip"), 0); err != nil {
		h.fail(w, r, "transactions.list", err)
		return
	}

	transactions, err := h.Transactions.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "transactions.list", err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "transactions.get", err)
		return
	}

	transaction, err := h.Transactions.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "transactions.get", err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "transactions.create", err)
		return
	}
	var req createTransactionRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "transactions.create", err)
		return
	}
	date, err := h.dateOrNow(req.Date)
	if err != nil {
		h.fail(w, r, "transactions.create", err)
		return
	}

	transaction, err := h.Transactions.Create(r.Context(), transactiondomain.CreateInput{
		Amount:        req.Amount,
		Direction:     transactiondomain.Direction(req.Direction),
		Category:      transactiondomain.Category(strings.ToUpper(req.Category)),
		FamilyID:      req.FamilyID,
		PaymentMethod: req.PaymentMethod,
		Date:          date,
		Description:   req.Description,
	}, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "transactions.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, transaction)
}

// ListPayments restricts FAMILY sessions to their own family's payments.
func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "payments.list", err)
		return
	}

	query := r.URL.Query()
	filter := paymentdomain.ListFilter{FamilyID: queryString(r, "familyId")}
	if session.Role == access.RoleFamily {
		if session.FamilyID == nil {
			writeJSON(w, http.StatusOK, []paymentdomain.Payment{})
			return
		}
		filter.FamilyID = session.FamilyID
	}
	if filter.From, err = parseTimeParam(query.Get("from"), h.loc); err != nil {
		h.fail(w, r, "payments.list", err)
		return
	}
	if filter.To, err = parseTimeParam(query.Get("to"), h.loc); err != nil {
		h.fail(w, r, "payments.list", err)
		return
	}

	payments, err := h.Payments.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "payments.list", err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "payments.get", err)
		return
	}

	payment, err := h.Payments.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "payments.get", err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "payments.create", err)
		return
	}
	var req createPaymentRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "payments.create", err)
		return
	}
	paidAt, err := h.dateOrNow(req.PaidAt)
	if err != nil {
		h.fail(w, r, "payments.create", err)
		return
	}

	payment, err := h.Payments.Create(r.Context(), paymentdomain.CreateInput{
		FamilyID:      req.FamilyID,
		Amount:        req.Amount,
		Concept:       paymentdomain.Concept(req.Concept),
		PaymentMethod: req.PaymentMethod,
		PaidAt:        paidAt,
		Description:   req.Description,
		RequestID:     req.RequestID,
	}, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "payments.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}
