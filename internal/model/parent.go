package model

type UserRole string

const (
	RoleParent  UserRole = "parent"
	RoleStudent UserRole = "student"
)

// swagger:model Parent
type Parent struct {
	BaseModel
	Name     string    `gorm:"size:100;not null" json:"name"`
	Email    string    `gorm:"size:100;unique;not null" json:"email"`
	Password string    `gorm:"size:100;not null" json:"-"`
	Students []Student `gorm:"constraint:OnDelete:CASCADE" json:"students,omitempty"`
}

func (Parent) TableName() string {
	return "parents"
}
