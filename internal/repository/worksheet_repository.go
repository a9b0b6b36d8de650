package repository

import (
	"time"

	"thinkdrills_backend/internal/model"

	"gorm.io/gorm"
)

type WorksheetRepository struct {
	DB *gorm.DB
}

func NewWorksheetRepository(db *gorm.DB) *WorksheetRepository {
	return &WorksheetRepository{DB: db}
}

// Create persists the worksheet and its questions in one transaction.
func (r *WorksheetRepository) Create(worksheet *model.Worksheet) error {
	return r.DB.Create(worksheet).Error
}

func (r *WorksheetRepository) FindByID(id uint) (*model.Worksheet, error) {
	var worksheet model.Worksheet
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&worksheet, id).Error
	return &worksheet, err
}

func (r *WorksheetRepository) FindByStudent(studentID uint) ([]model.Worksheet, error) {
	var worksheets []model.Worksheet
	err := r.DB.Where("student_id = ?", studentID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("created_at DESC").
		Find(&worksheets).Error
	return worksheets, err
}

// FindIncompleteForDay reports whether the student already has a
// non-completed worksheet created on or after dayStart. Enforces the
// one-worksheet-per-day rule.
func (r *WorksheetRepository) FindIncompleteForDay(studentID uint, dayStart time.Time) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Worksheet{}).
		Where("student_id = ? AND created_at >= ? AND status <> ?",
			studentID, dayStart, model.WorksheetCompleted).
		Count(&count).Error
	return count > 0, err
}

// Save writes back a mutated worksheet projection, questions included.
func (r *WorksheetRepository) Save(worksheet *model.Worksheet) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Worksheet{}).
			Where("id = ?", worksheet.ID).
			Select("status", "score", "started_at", "completed_at").
			Updates(map[string]interface{}{
				"status":       worksheet.Status,
				"score":        worksheet.Score,
				"started_at":   worksheet.StartedAt,
				"completed_at": worksheet.CompletedAt,
			}).Error; err != nil {
			return err
		}

		for i := range worksheet.Questions {
			q := &worksheet.Questions[i]
			if err := tx.Model(&model.Question{}).
				Where("id = ?", q.ID).
				Select("student_answer", "is_correct").
				Updates(map[string]interface{}{
					"student_answer": q.StudentAnswer,
					"is_correct":     q.IsCorrect,
				}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
