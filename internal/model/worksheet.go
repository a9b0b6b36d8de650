package model

import "time"

type WorksheetStatus string

const (
	WorksheetNotStarted WorksheetStatus = "NOT_STARTED"
	WorksheetInProgress WorksheetStatus = "IN_PROGRESS"
	WorksheetCompleted  WorksheetStatus = "COMPLETED"
)

// swagger:model Worksheet
type Worksheet struct {
	BaseModel
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"size:500" json:"description"`
	Subject     string          `gorm:"size:100;not null" json:"subject"`
	Grade       int             `gorm:"not null" json:"grade"`
	Status      WorksheetStatus `gorm:"size:20;default:'NOT_STARTED'" json:"status"`

	// Score is nil until the worksheet is submitted; 0-100 afterwards.
	Score       *int       `json:"score"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`

	StudentID uint       `gorm:"index;not null" json:"studentId"`
	Questions []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Worksheet) TableName() string {
	return "worksheets"
}

// swagger:model Question
type Question struct {
	BaseModel
	WorksheetID uint     `gorm:"index;not null" json:"worksheetId"`
	Content     string   `gorm:"type:text;not null" json:"content"`
	Options     []string `gorm:"type:json;serializer:json" json:"options"`
	Answer      string   `gorm:"size:500;not null" json:"answer"`
	Explanation string   `gorm:"type:text" json:"explanation"`

	// Set on save/submit; IsCorrect is only ever set together with
	// StudentAnswer.
	StudentAnswer *string `gorm:"size:500" json:"studentAnswer"`
	IsCorrect     *bool   `json:"isCorrect"`
}

func (Question) TableName() string {
	return "questions"
}
