package service

import (
	"errors"

	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/repository"
	"thinkdrills_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StudentService struct {
	StudentRepo *repository.StudentRepository
}

func NewStudentService(studentRepo *repository.StudentRepository) *StudentService {
	return &StudentService{StudentRepo: studentRepo}
}

// CreateStudent registers a student account under the given parent.
func (s *StudentService) CreateStudent(parentID uint, student *model.Student) error {
	_, err := s.StudentRepo.FindByUserName(student.UserName)
	if err == nil {
		return util.ErrUserNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(student.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	student.Password = string(hashedPassword)
	student.ParentID = parentID
	return s.StudentRepo.Create(student)
}

func (s *StudentService) ListStudents(parentID uint) ([]model.Student, error) {
	return s.StudentRepo.FindByParent(parentID)
}

// GetStudent returns the student only when it belongs to the parent.
func (s *StudentService) GetStudent(parentID, studentID uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	if student.ParentID != parentID {
		return nil, util.ErrPermissionDenied
	}
	return student, nil
}

type StudentUpdate struct {
	Name       string   `json:"name"`
	Grade      int      `json:"grade"`
	Categories []string `json:"categories"`
	Interests  []string `json:"interests"`
}

func (s *StudentService) UpdateStudent(parentID, studentID uint, update StudentUpdate) (*model.Student, error) {
	student, err := s.GetStudent(parentID, studentID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		student.Name = update.Name
	}
	if update.Grade != 0 {
		student.Grade = update.Grade
	}
	if update.Categories != nil {
		student.Categories = update.Categories
	}
	if update.Interests != nil {
		student.Interests = update.Interests
	}

	if err := s.StudentRepo.Update(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) ResetStudentPassword(parentID, studentID uint, newPassword string) error {
	if _, err := s.GetStudent(parentID, studentID); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.StudentRepo.UpdatePassword(studentID, string(hashedPassword))
}

func (s *StudentService) DeleteStudent(parentID, studentID uint) error {
	if _, err := s.GetStudent(parentID, studentID); err != nil {
		return err
	}
	return s.StudentRepo.Delete(studentID)
}
