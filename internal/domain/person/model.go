package person

import "time"

// Person is an adult contact of a family; not a login.
type Person struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	FamilyID  *string   `gorm:"type:uuid" json:"familyId"`
	RamaID    *string   `gorm:"type:uuid" json:"ramaId"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `gorm:"not null" json:"lastName"`
	DNI       *string   `gorm:"column:dni" json:"dni"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Person) TableName() string {
	return "persons"
}

type Input struct {
	FamilyID  *string
	RamaID    *string
	FirstName string
	LastName  string
	DNI       *string
	Email     *string
	Phone     *string
}
