package service

import (
	"math"
	"time"

	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/util"
)

// The lifecycle functions below mutate a worksheet in memory and return an
// error when the transition is not legal from the current status. Persistence
// is the caller's concern.

// StartWorksheet moves NOT_STARTED to IN_PROGRESS and stamps StartedAt.
func StartWorksheet(worksheet *model.Worksheet, now time.Time) error {
	if worksheet.Status != model.WorksheetNotStarted {
		return util.ErrInvalidWorksheetState
	}
	worksheet.Status = model.WorksheetInProgress
	worksheet.StartedAt = &now
	return nil
}

// SaveWorksheetProgress records the student's current answers without
// grading them. Only legal while the worksheet is IN_PROGRESS. A nil entry
// leaves that question unanswered.
func SaveWorksheetProgress(worksheet *model.Worksheet, answers []*string) error {
	if worksheet.Status != model.WorksheetInProgress {
		return util.ErrInvalidWorksheetState
	}
	if len(answers) != len(worksheet.Questions) {
		return util.ErrAnswerCountMismatch
	}
	for i := range worksheet.Questions {
		worksheet.Questions[i].StudentAnswer = answers[i]
	}
	return nil
}

// SubmitWorksheet grades the answers and moves the worksheet to COMPLETED.
// Submitting straight from NOT_STARTED is allowed and counts as an implicit
// start. A worksheet with no questions completes with a nil score.
func SubmitWorksheet(worksheet *model.Worksheet, answers []*string, now time.Time) error {
	if worksheet.Status != model.WorksheetNotStarted && worksheet.Status != model.WorksheetInProgress {
		return util.ErrInvalidWorksheetState
	}
	if len(answers) != len(worksheet.Questions) {
		return util.ErrAnswerCountMismatch
	}

	correct := 0
	for i := range worksheet.Questions {
		q := &worksheet.Questions[i]
		q.StudentAnswer = answers[i]
		isCorrect := answers[i] != nil && *answers[i] == q.Answer
		q.IsCorrect = &isCorrect
		if isCorrect {
			correct++
		}
	}

	if total := len(worksheet.Questions); total > 0 {
		score := int(math.Round(100 * float64(correct) / float64(total)))
		worksheet.Score = &score
	} else {
		worksheet.Score = nil
	}

	if worksheet.StartedAt == nil {
		worksheet.StartedAt = &now
	}
	worksheet.Status = model.WorksheetCompleted
	worksheet.CompletedAt = &now
	return nil
}

// ResetWorksheet returns a COMPLETED worksheet to NOT_STARTED so it can be
// retaken. Answers, grades, score and timestamps are cleared; the question
// content itself is untouched.
func ResetWorksheet(worksheet *model.Worksheet) error {
	if worksheet.Status != model.WorksheetCompleted {
		return util.ErrInvalidWorksheetState
	}
	worksheet.Status = model.WorksheetNotStarted
	worksheet.Score = nil
	worksheet.StartedAt = nil
	worksheet.CompletedAt = nil
	for i := range worksheet.Questions {
		worksheet.Questions[i].StudentAnswer = nil
		worksheet.Questions[i].IsCorrect = nil
	}
	return nil
}
