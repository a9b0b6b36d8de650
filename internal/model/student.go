package model

// swagger:model Student
type Student struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	UserName string `gorm:"size:100;unique;not null" json:"userName"`
	Password string `gorm:"size:100;not null" json:"-"`
	Grade    int    `gorm:"not null" json:"grade"`

	// Subjects the student practices and the themes their questions are
	// wrapped in, e.g. ["Math","Science"] and ["Space","Animals"].
	Categories []string `gorm:"type:json;serializer:json" json:"categories"`
	Interests  []string `gorm:"type:json;serializer:json" json:"interests"`

	ParentID   uint        `gorm:"index;not null" json:"parentId"`
	Worksheets []Worksheet `gorm:"constraint:OnDelete:CASCADE" json:"worksheets,omitempty"`
}

func (Student) TableName() string {
	return "students"
}
