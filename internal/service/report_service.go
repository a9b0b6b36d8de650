package service

import (
	"math"
	"sort"

	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/repository"
	"thinkdrills_backend/internal/util"
)

const recentWorksheetLimit = 5

// SubjectAverage is the average completed score for one subject.
type SubjectAverage struct {
	Subject      string `json:"subject"`
	AverageScore int    `json:"averageScore"`
	Completed    int    `json:"completed"`
}

// WorksheetSummary is the compact worksheet view used inside reports.
type WorksheetSummary struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Subject     string                `json:"subject"`
	Status      model.WorksheetStatus `json:"status"`
	Score       *int                  `json:"score"`
	CompletedAt *string               `json:"completedAt"`
}

// StudentReport aggregates one student's worksheet history. AverageScore is
// nil until at least one worksheet has been completed.
type StudentReport struct {
	StudentID           uint               `json:"studentId"`
	StudentName         string             `json:"studentName"`
	Grade               int                `json:"grade"`
	TotalWorksheets     int                `json:"totalWorksheets"`
	CompletedWorksheets int                `json:"completedWorksheets"`
	AverageScore        *int               `json:"averageScore"`
	SubjectAverages     []SubjectAverage   `json:"subjectAverages"`
	RecentWorksheets    []WorksheetSummary `json:"recentWorksheets"`
}

type ReportService struct {
	StudentRepo *repository.StudentRepository
}

func NewReportService(studentRepo *repository.StudentRepository) *ReportService {
	return &ReportService{StudentRepo: studentRepo}
}

// ReportsForParent builds one report per student of the parent.
func (s *ReportService) ReportsForParent(parentID uint) ([]StudentReport, error) {
	students, err := s.StudentRepo.FindByParentWithWorksheets(parentID)
	if err != nil {
		return nil, err
	}

	reports := make([]StudentReport, 0, len(students))
	for i := range students {
		reports = append(reports, BuildStudentReport(&students[i]))
	}
	return reports, nil
}

// BuildStudentReport aggregates the student's worksheets into a report. It
// expects worksheets ordered newest first, as the repository returns them.
func BuildStudentReport(student *model.Student) StudentReport {
	report := StudentReport{
		StudentID:        student.ID,
		StudentName:      student.Name,
		Grade:            student.Grade,
		TotalWorksheets:  len(student.Worksheets),
		SubjectAverages:  []SubjectAverage{},
		RecentWorksheets: []WorksheetSummary{},
	}

	scoreTotal := 0
	scored := 0
	subjectTotals := make(map[string]int)
	subjectCounts := make(map[string]int)

	for i := range student.Worksheets {
		w := &student.Worksheets[i]

		if len(report.RecentWorksheets) < recentWorksheetLimit {
			summary := WorksheetSummary{
				ID:      w.ID,
				Title:   w.Title,
				Subject: w.Subject,
				Status:  w.Status,
				Score:   w.Score,
			}
			if w.CompletedAt != nil {
				ts := w.CompletedAt.Format(util.DateFormat)
				summary.CompletedAt = &ts
			}
			report.RecentWorksheets = append(report.RecentWorksheets, summary)
		}

		if w.Status != model.WorksheetCompleted {
			continue
		}
		report.CompletedWorksheets++

		if w.Score != nil {
			scoreTotal += *w.Score
			scored++
			subjectTotals[w.Subject] += *w.Score
			subjectCounts[w.Subject]++
		}
	}

	if scored > 0 {
		avg := int(math.Round(float64(scoreTotal) / float64(scored)))
		report.AverageScore = &avg
	}

	for subject, total := range subjectTotals {
		count := subjectCounts[subject]
		report.SubjectAverages = append(report.SubjectAverages, SubjectAverage{
			Subject:      subject,
			AverageScore: int(math.Round(float64(total) / float64(count))),
			Completed:    count,
		})
	}
	sort.Slice(report.SubjectAverages, func(i, j int) bool {
		return report.SubjectAverages[i].Subject < report.SubjectAverages[j].Subject
	})

	return report
}
