package repository

import (
	"thinkdrills_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	return &student, err
}

func (r *StudentRepository) FindByUserName(userName string) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("user_name = ?", userName).First(&student).Error
	return &student, err
}

func (r *StudentRepository) FindByParent(parentID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Where("parent_id = ?", parentID).Find(&students).Error
	return students, err
}

// FindByParentWithWorksheets preloads each student's worksheets and
// questions, worksheets newest first, for the parent report view.
func (r *StudentRepository) FindByParentWithWorksheets(parentID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Where("parent_id = ?", parentID).
		Preload("Worksheets", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Worksheets.Questions").
		Find(&students).Error
	return students, err
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.DB.Save(student).Error
}

func (r *StudentRepository) UpdatePassword(id uint, hashedPassword string) error {
	return r.DB.Model(&model.Student{}).
		Where("id = ?", id).
		Update("password", hashedPassword).
		Error
}

func (r *StudentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return deleteStudentCascade(tx, id)
	})
}

// deleteStudentCascade removes a student and all dependent rows inside the
// caller's transaction.
func deleteStudentCascade(tx *gorm.DB, studentID uint) error {
	var worksheetIDs []uint
	if err := tx.Model(&model.Worksheet{}).
		Where("student_id = ?", studentID).
		Pluck("id", &worksheetIDs).Error; err != nil {
		return err
	}

	if len(worksheetIDs) > 0 {
		if err := tx.Where("worksheet_id IN ?", worksheetIDs).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Worksheet{}, worksheetIDs).Error; err != nil {
			return err
		}
	}

	return tx.Delete(&model.Student{}, studentID).Error
}
