package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"thinkdrills_backend/internal/ai"
	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/repository"
	"thinkdrills_backend/internal/util"
	"thinkdrills_backend/pkg/logger"
	"thinkdrills_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorksheetService struct {
	WorksheetRepo *repository.WorksheetRepository
	StudentRepo   *repository.StudentRepository
	Generator     *ai.Generator
	Cfg           *config.Config

	now func() time.Time
}

func NewWorksheetService(worksheetRepo *repository.WorksheetRepository, studentRepo *repository.StudentRepository, generator *ai.Generator, cfg *config.Config) *WorksheetService {
	return &WorksheetService{
		WorksheetRepo: worksheetRepo,
		StudentRepo:   studentRepo,
		Generator:     generator,
		Cfg:           cfg,
		now:           time.Now,
	}
}

// GenerateDaily creates today's worksheet for the student: a random pick
// from their subjects and interests, themed questions from the AI provider.
// A student keeps at most one unfinished worksheet per calendar day.
func (s *WorksheetService) GenerateDaily(ctx context.Context, studentID uint) (*model.Worksheet, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	if len(student.Categories) == 0 || len(student.Interests) == 0 {
		return nil, util.ErrProfileIncomplete
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	exists, err := s.WorksheetRepo.FindIncompleteForDay(studentID, dayStart)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrWorksheetExistsToday
	}

	category := student.Categories[rand.Intn(len(student.Categories))]
	interest := student.Interests[rand.Intn(len(student.Interests))]

	start := now
	generated, err := s.Generator.GenerateQuestions(ctx, ai.GenerationParams{
		Category: category,
		Interest: interest,
		Grade:    student.Grade,
		Count:    s.Cfg.AI.QuestionCount,
	})
	monitoring.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	worksheet := &model.Worksheet{
		Title:       fmt.Sprintf("%s Practice - %s Theme", category, interest),
		Description: fmt.Sprintf("A %s worksheet themed around %s for grade %d.", category, interest, student.Grade),
		Subject:     category,
		Grade:       student.Grade,
		Status:      model.WorksheetNotStarted,
		StudentID:   studentID,
	}
	for _, q := range generated {
		worksheet.Questions = append(worksheet.Questions, model.Question{
			Content:     q.Content,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}

	if err := s.WorksheetRepo.Create(worksheet); err != nil {
		return nil, err
	}

	logger.Log.Info("worksheet generated",
		zap.Uint("student_id", studentID),
		zap.String("subject", category),
		zap.String("interest", interest),
		zap.Int("questions", len(worksheet.Questions)))

	return worksheet, nil
}

// WorksheetOverview splits a student's worksheets into the active one (if
// any) and the history shown below it.
type WorksheetOverview struct {
	Current  *model.Worksheet  `json:"current"`
	Previous []model.Worksheet `json:"previous"`
}

func (s *WorksheetService) ListForStudent(studentID uint) (*WorksheetOverview, error) {
	worksheets, err := s.WorksheetRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	overview := &WorksheetOverview{Previous: make([]model.Worksheet, 0, len(worksheets))}
	for i := range worksheets {
		w := worksheets[i]
		if overview.Current == nil && w.Status != model.WorksheetCompleted {
			overview.Current = &w
			continue
		}
		overview.Previous = append(overview.Previous, w)
	}
	return overview, nil
}

// Get returns the worksheet when the caller may see it: the owning student,
// or that student's parent. Parents get read access only.
func (s *WorksheetService) Get(worksheetID, userID uint, role model.UserRole) (*model.Worksheet, error) {
	worksheet, err := s.WorksheetRepo.FindByID(worksheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWorksheetNotFound
		}
		return nil, err
	}

	switch role {
	case model.RoleStudent:
		if worksheet.StudentID != userID {
			return nil, util.ErrPermissionDenied
		}
	case model.RoleParent:
		student, err := s.StudentRepo.FindByID(worksheet.StudentID)
		if err != nil {
			return nil, err
		}
		if student.ParentID != userID {
			return nil, util.ErrPermissionDenied
		}
	default:
		return nil, util.ErrPermissionDenied
	}

	return worksheet, nil
}

// getOwned fetches a worksheet for a mutating operation. Only the owning
// student may mutate.
func (s *WorksheetService) getOwned(worksheetID, studentID uint) (*model.Worksheet, error) {
	worksheet, err := s.WorksheetRepo.FindByID(worksheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWorksheetNotFound
		}
		return nil, err
	}
	if worksheet.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	return worksheet, nil
}

func (s *WorksheetService) Start(worksheetID, studentID uint) (*model.Worksheet, error) {
	worksheet, err := s.getOwned(worksheetID, studentID)
	if err != nil {
		return nil, err
	}
	if err := StartWorksheet(worksheet, s.now()); err != nil {
		return nil, err
	}
	if err := s.WorksheetRepo.Save(worksheet); err != nil {
		return nil, err
	}
	return worksheet, nil
}

func (s *WorksheetService) SaveProgress(worksheetID, studentID uint, answers []*string) (*model.Worksheet, error) {
	worksheet, err := s.getOwned(worksheetID, studentID)
	if err != nil {
		return nil, err
	}
	if err := SaveWorksheetProgress(worksheet, answers); err != nil {
		return nil, err
	}
	if err := s.WorksheetRepo.Save(worksheet); err != nil {
		return nil, err
	}
	return worksheet, nil
}

func (s *WorksheetService) Submit(worksheetID, studentID uint, answers []*string) (*model.Worksheet, error) {
	worksheet, err := s.getOwned(worksheetID, studentID)
	if err != nil {
		return nil, err
	}
	if err := SubmitWorksheet(worksheet, answers, s.now()); err != nil {
		return nil, err
	}
	if err := s.WorksheetRepo.Save(worksheet); err != nil {
		return nil, err
	}
	return worksheet, nil
}

func (s *WorksheetService) Reset(worksheetID, studentID uint) (*model.Worksheet, error) {
	worksheet, err := s.getOwned(worksheetID, studentID)
	if err != nil {
		return nil, err
	}
	if err := ResetWorksheet(worksheet); err != nil {
		return nil, err
	}
	if err := s.WorksheetRepo.Save(worksheet); err != nil {
		return nil, err
	}
	return worksheet, nil
}
