package family

import (
	"time"

	"family-dues-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type Family struct {
	ID        string      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"not null" json:"name"`
	Phone     *string     `json:"phone"`
	RamaID    *string     `gorm:"type:uuid" json:"ramaId"`
	Balance   *Balance    `gorm:"foreignKey:FamilyID;references:ID" json:"balance,omitempty"`
	Users     []user.User `gorm:"foreignKey:FamilyID;references:ID" json:"users,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (Family) TableName() string {
	return "families"
}

// Balance is the monetary state of one family. Dues debits lower
// CuotaBalance; payments raise it, so a negative value is a debt.
type Balance struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	FamilyID      string          `gorm:"type:uuid;not null;uniqueIndex" json:"familyId"`
	CuotaBalance  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cuotaBalance"`
	CFABalance    decimal.Decimal `gorm:"column:cfa_balance;type:numeric(12,2);not null" json:"cfaBalance"`
	CustomBalance decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"customBalance"`
	CustomCFA     decimal.Decimal `gorm:"column:custom_cfa;type:numeric(12,2);not null" json:"customCfa"`
	IsCustomCuota bool            `gorm:"not null" json:"isCustomCuota"`
	IsCustomCFA   bool            `gorm:"column:is_custom_cfa;not null" json:"isCustomCfa"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Balance) TableName() string {
	return "balances"
}

// Account selects which balance column a movement applies to.
type Account string

const (
	AccountCuota Account = "CUOTA"
	AccountCFA   Account = "CFA"
)

func (a Account) Column() string {
	if a == AccountCFA {
		return "cfa_balance"
	}
	return "cuota_balance"
}

type CreateInput struct {
	Name          string
	Phone         *string
	RamaID        *string
	IsCustomCuota bool
	CustomBalance decimal.Decimal
}

type UpdateInput struct {
	Name   *string
	Phone  *string
	RamaID *string
}

// BalanceInput edits a balance; nil fields are left unchanged.
type BalanceInput struct {
	CuotaBalance  *decimal.Decimal
	CFABalance    *decimal.Decimal
	CustomBalance *decimal.Decimal
	CustomCFA     *decimal.Decimal
	IsCustomCuota *bool
	IsCustomCFA   *bool
}
