package repository

import (
	"thinkdrills_backend/internal/model"

	"gorm.io/gorm"
)

type ParentRepository struct {
	DB *gorm.DB
}

func NewParentRepository(db *gorm.DB) *ParentRepository {
	return &ParentRepository{DB: db}
}

func (r *ParentRepository) Create(parent *model.Parent) error {
	return r.DB.Create(parent).Error
}

func (r *ParentRepository) FindByID(id uint) (*model.Parent, error) {
	var parent model.Parent
	err := r.DB.First(&parent, id).Error
	return &parent, err
}

func (r *ParentRepository) FindByEmail(email string) (*model.Parent, error) {
	var parent model.Parent
	err := r.DB.Where("email = ?", email).First(&parent).Error
	return &parent, err
}

func (r *ParentRepository) UpdatePassword(id uint, hashedPassword string) error {
	return r.DB.Model(&model.Parent{}).
		Where("id = ?", id).
		Update("password", hashedPassword).
		Error
}

// Delete removes the parent together with their students and the students'
// worksheets and questions, in one transaction.
func (r *ParentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var students []model.Student
		if err := tx.Where("parent_id = ?", id).Find(&students).Error; err != nil {
			return err
		}

		for _, student := range students {
			if err := deleteStudentCascade(tx, student.ID); err != nil {
				return err
			}
		}

		return tx.Delete(&model.Parent{}, id).Error
	})
}
