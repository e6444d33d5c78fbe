package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Concept string

const (
	ConceptCuota Concept = "CUOTA"
	ConceptCFA   Concept = "CFA"
)

func (c Concept) Valid() bool {
	return c == ConceptCuota || c == ConceptCFA
}

type Payment struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	FamilyID      string          `gorm:"type:uuid;not null" json:"familyId"`
	TransactionID string          `gorm:"type:uuid;not null" json:"transactionId"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Concept       Concept         `gorm:"not null" json:"concept"`
	PaymentMethod string          `gorm:"not null" json:"paymentMethod"`
	PaidAt        time.Time       `gorm:"not null" json:"paidAt"`
	RequestID     *string         `json:"requestId"`
	CreatedBy     string          `gorm:"not null" json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (Payment) TableName() string {
	return "payments"
}

type CreateInput struct {
	FamilyID      string
	Amount        decimal.Decimal
	Concept       Concept
	PaymentMethod string
	PaidAt        time.Time
	Description   *string
	RequestID     *string
}

type ListFilter struct {
	FamilyID *string
	From     *time.Time
	To       *time.Time
}
