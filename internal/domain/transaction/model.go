package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

type Category string

const (
	CategoryCuota    Category = "CUOTA"
	CategoryCFA      Category = "CFA"
	CategoryDonacion Category = "DONACION"
	CategoryEvento   Category = "EVENTO"
	CategoryOtro     Category = "OTRO"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCuota, CategoryCFA, CategoryDonacion, CategoryEvento, CategoryOtro:
		return true
	default:
		return false
	}
}

// Transaction is an immutable money movement.
type Transaction struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Direction     Direction       `gorm:"not null" json:"direction"`
	Category      Category        `gorm:"not null" json:"category"`
	FamilyID      *string         `gorm:"type:uuid" json:"familyId"`
	PaymentMethod string          `gorm:"not null" json:"paymentMethod"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Description   *string         `json:"description"`
	CreatedBy     string          `gorm:"not null" json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type CreateInput struct {
	Amount        decimal.Decimal
	Direction     Direction
	Category      Category
	FamilyID      *string
	PaymentMethod string
	Date          time.Time
	Description   *string
}

// ListFilter narrows a listing; From is inclusive and To exclusive.
type ListFilter struct {
	FamilyID  *string
	Direction *Direction
	Category  *Category
	From      *time.Time
	To        *time.Time
	Take      int
	Skip      int
}
