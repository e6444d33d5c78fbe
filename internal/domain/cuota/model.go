package cuota

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cuota is one version of the global dues policy. At most one is active.
type Cuota struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Value     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	CFA       decimal.Decimal `gorm:"column:cfa;type:numeric(12,2);not null" json:"cfa"`
	IsActive  bool            `gorm:"not null" json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Cuota) TableName() string {
	return "cuotas"
}

// SiblingOverride replaces the base value for families with exactly
// Cantidad active beneficiaries.
type SiblingOverride struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Cantidad  int             `gorm:"not null;uniqueIndex" json:"cantidad"`
	Valor     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"valor"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (SiblingOverride) TableName() string {
	return "cuota_por_hermanos"
}

type Input struct {
	Value    decimal.Decimal
	CFA      decimal.Decimal
	IsActive bool
}

type OverrideInput struct {
	Cantidad int
	Valor    decimal.Decimal
}
