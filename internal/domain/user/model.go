package user

import (
	"time"

	"family-dues-go/internal/domain/access"
)

type User struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string      `gorm:"not null" json:"username"`
	Email        *string     `json:"email"`
	Name         string      `gorm:"not null" json:"name"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         access.Role `gorm:"not null" json:"role"`
	RamaID       *string     `gorm:"type:uuid" json:"ramaId"`
	FamilyID     *string     `gorm:"type:uuid" json:"familyId"`
	IsActive     bool        `gorm:"not null" json:"isActive"`
	IsGranted    bool        `gorm:"not null" json:"isGranted"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// IsActiveBeneficiary reports whether the user counts towards a family's dues.
func (u User) IsActiveBeneficiary() bool {
	return u.IsActive && !u.IsGranted
}

// Session returns the identity carried by this user's tokens.
func (u User) Session() access.SessionUser {
	return access.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		RamaID:   u.RamaID,
		FamilyID: u.FamilyID,
	}
}

type CreateInput struct {
	Username  string
	Password  string
	Email     *string
	Name      string
	Role      string
	RamaID    *string
	FamilyID  *string
	IsActive  *bool
	IsGranted bool
}

// UpdateInput holds the fields to change; nil means unchanged.
type UpdateInput struct {
	Email     *string
	Name      *string
	Password  *string
	Role      *string
	RamaID    *string
	FamilyID  *string
	IsActive  *bool
	IsGranted *bool
}
