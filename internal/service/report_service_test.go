package service

import (
	"testing"
	"time"

	"thinkdrills_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func completedWorksheet(id uint, subject string, score int) model.Worksheet {
	completed := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	w := model.Worksheet{
		Subject:     subject,
		Title:       subject + " Practice",
		Status:      model.WorksheetCompleted,
		Score:       intPtr(score),
		CompletedAt: &completed,
	}
	w.ID = id
	return w
}

func TestBuildStudentReportAggregatesSubjects(t *testing.T) {
	student := &model.Student{
		Name:  "Ada",
		Grade: 4,
		Worksheets: []model.Worksheet{
			completedWorksheet(1, "Science", 90),
			completedWorksheet(2, "Math", 80),
			completedWorksheet(3, "Math", 90),
			{Subject: "Math", Status: model.WorksheetInProgress},
		},
	}
	student.ID = 7

	report := BuildStudentReport(student)

	assert.Equal(t, uint(7), report.StudentID)
	assert.Equal(t, "Ada", report.StudentName)
	assert.Equal(t, 4, report.TotalWorksheets)
	assert.Equal(t, 3, report.CompletedWorksheets)

	require.NotNil(t, report.AverageScore)
	assert.Equal(t, 87, *report.AverageScore)

	// Subjects come back alphabetically.
	require.Len(t, report.SubjectAverages, 2)
	assert.Equal(t, SubjectAverage{Subject: "Math", AverageScore: 85, Completed: 2}, report.SubjectAverages[0])
	assert.Equal(t, SubjectAverage{Subject: "Science", AverageScore: 90, Completed: 1}, report.SubjectAverages[1])
}

func TestBuildStudentReportWithNothingCompleted(t *testing.T) {
	student := &model.Student{
		Name: "Ben",
		Worksheets: []model.Worksheet{
			{Subject: "Math", Status: model.WorksheetNotStarted},
			{Subject: "Math", Status: model.WorksheetInProgress},
		},
	}

	report := BuildStudentReport(student)

	assert.Equal(t, 2, report.TotalWorksheets)
	assert.Equal(t, 0, report.CompletedWorksheets)
	assert.Nil(t, report.AverageScore)
	assert.Empty(t, report.SubjectAverages)
	assert.Len(t, report.RecentWorksheets, 2)
}

func TestBuildStudentReportEmptyHistory(t *testing.T) {
	report := BuildStudentReport(&model.Student{Name: "Cleo"})

	assert.Equal(t, 0, report.TotalWorksheets)
	assert.Nil(t, report.AverageScore)
	assert.NotNil(t, report.SubjectAverages)
	assert.NotNil(t, report.RecentWorksheets)
	assert.Empty(t, report.RecentWorksheets)
}

func TestBuildStudentReportRecentListIsCapped(t *testing.T) {
	student := &model.Student{Name: "Dot"}
	for i := uint(1); i <= 8; i++ {
		student.Worksheets = append(student.Worksheets, completedWorksheet(i, "Math", 100))
	}

	report := BuildStudentReport(student)

	require.Len(t, report.RecentWorksheets, 5)
	// Worksheets arrive newest first; the cap keeps the newest five.
	assert.Equal(t, uint(1), report.RecentWorksheets[0].ID)
	assert.Equal(t, uint(5), report.RecentWorksheets[4].ID)
	require.NotNil(t, report.RecentWorksheets[0].CompletedAt)
	assert.Equal(t, "2026-08-20", *report.RecentWorksheets[0].CompletedAt)
}
