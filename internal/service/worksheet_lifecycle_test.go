package service

import (
	"testing"
	"time"

	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func worksheetWithQuestions(status model.WorksheetStatus, answers ...string) *model.Worksheet {
	w := &model.Worksheet{Status: status}
	for _, answer := range answers {
		w.Questions = append(w.Questions, model.Question{
			Content: "q",
			Options: []string{answer, "x", "y", "z"},
			Answer:  answer,
		})
	}
	return w
}

func TestStartWorksheet(t *testing.T) {
	now := time.Now()

	t.Run("from not started", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetNotStarted, "a")
		require.NoError(t, StartWorksheet(w, now))
		assert.Equal(t, model.WorksheetInProgress, w.Status)
		require.NotNil(t, w.StartedAt)
		assert.Equal(t, now, *w.StartedAt)
	})

	t.Run("already in progress", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetInProgress, "a")
		assert.ErrorIs(t, StartWorksheet(w, now), util.ErrInvalidWorksheetState)
	})

	t.Run("already completed", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetCompleted, "a")
		assert.ErrorIs(t, StartWorksheet(w, now), util.ErrInvalidWorksheetState)
	})
}

func TestSaveWorksheetProgress(t *testing.T) {
	t.Run("records answers without grading", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetInProgress, "a", "b")
		require.NoError(t, SaveWorksheetProgress(w, []*string{strPtr("a"), nil}))

		assert.Equal(t, model.WorksheetInProgress, w.Status)
		assert.Equal(t, "a", *w.Questions[0].StudentAnswer)
		assert.Nil(t, w.Questions[1].StudentAnswer)
		assert.Nil(t, w.Questions[0].IsCorrect)
		assert.Nil(t, w.Score)
	})

	t.Run("not allowed before start", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetNotStarted, "a")
		assert.ErrorIs(t, SaveWorksheetProgress(w, []*string{strPtr("a")}), util.ErrInvalidWorksheetState)
	})

	t.Run("answer count must match", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetInProgress, "a", "b")
		assert.ErrorIs(t, SaveWorksheetProgress(w, []*string{strPtr("a")}), util.ErrAnswerCountMismatch)
	})
}

func TestSubmitWorksheet(t *testing.T) {
	now := time.Now()

	t.Run("scores half right as 50", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetInProgress, "a", "b", "c", "d")
		answers := []*string{strPtr("a"), strPtr("b"), strPtr("wrong"), nil}

		require.NoError(t, SubmitWorksheet(w, answers, now))

		assert.Equal(t, model.WorksheetCompleted, w.Status)
		require.NotNil(t, w.Score)
		assert.Equal(t, 50, *w.Score)
		assert.True(t, *w.Questions[0].IsCorrect)
		assert.True(t, *w.Questions[1].IsCorrect)
		assert.False(t, *w.Questions[2].IsCorrect)
		assert.False(t, *w.Questions[3].IsCorrect)
		require.NotNil(t, w.CompletedAt)
		assert.Equal(t, now, *w.CompletedAt)
	})

	t.Run("rounds the score", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetInProgress, "a", "b", "c")
		answers := []*string{strPtr("a"), strPtr("b"), nil}

		require.NoError(t, SubmitWorksheet(w, answers, now))
		require.NotNil(t, w.Score)
		assert.Equal(t, 67, *w.Score)
	})

	t.Run("submit straight from not started counts as a start", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetNotStarted, "a")
		require.NoError(t, SubmitWorksheet(w, []*string{strPtr("a")}, now))

		assert.Equal(t, model.WorksheetCompleted, w.Status)
		require.NotNil(t, w.StartedAt)
		assert.Equal(t, now, *w.StartedAt)
	})

	t.Run("existing start time is preserved", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		w := worksheetWithQuestions(model.WorksheetInProgress, "a")
		w.StartedAt = &earlier

		require.NoError(t, SubmitWorksheet(w, []*string{strPtr("a")}, now))
		assert.Equal(t, earlier, *w.StartedAt)
	})

	t.Run("no questions completes with nil score", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetNotStarted)
		require.NoError(t, SubmitWorksheet(w, nil, now))

		assert.Equal(t, model.WorksheetCompleted, w.Status)
		assert.Nil(t, w.Score)
	})

	t.Run("resubmitting is rejected", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetCompleted, "a")
		assert.ErrorIs(t, SubmitWorksheet(w, []*string{strPtr("a")}, now), util.ErrInvalidWorksheetState)
	})
}

func TestResetWorksheet(t *testing.T) {
	now := time.Now()

	t.Run("clears grading state but keeps content", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetInProgress, "a", "b")
		require.NoError(t, SubmitWorksheet(w, []*string{strPtr("a"), strPtr("wrong")}, now))

		require.NoError(t, ResetWorksheet(w))

		assert.Equal(t, model.WorksheetNotStarted, w.Status)
		assert.Nil(t, w.Score)
		assert.Nil(t, w.StartedAt)
		assert.Nil(t, w.CompletedAt)
		for _, q := range w.Questions {
			assert.Nil(t, q.StudentAnswer)
			assert.Nil(t, q.IsCorrect)
			assert.NotEmpty(t, q.Content)
			assert.Len(t, q.Options, 4)
			assert.NotEmpty(t, q.Answer)
		}
	})

	t.Run("reset then complete again", func(t *testing.T) {
		w := worksheetWithQuestions(model.WorksheetNotStarted, "a")
		require.NoError(t, SubmitWorksheet(w, []*string{strPtr("a")}, now))
		require.NoError(t, ResetWorksheet(w))

		require.NoError(t, StartWorksheet(w, now))
		require.NoError(t, SubmitWorksheet(w, []*string{strPtr("a")}, now))
		require.NotNil(t, w.Score)
		assert.Equal(t, 100, *w.Score)
	})

	t.Run("only completed worksheets reset", func(t *testing.T) {
		assert.ErrorIs(t, ResetWorksheet(worksheetWithQuestions(model.WorksheetNotStarted, "a")), util.ErrInvalidWorksheetState)
		assert.ErrorIs(t, ResetWorksheet(worksheetWithQuestions(model.WorksheetInProgress, "a")), util.ErrInvalidWorksheetState)
	})
}
