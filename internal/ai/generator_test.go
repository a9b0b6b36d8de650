package ai

import (
	"context"
	"errors"
	"os"
	"testing"

	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeClient scripts GenerateBatch responses and records every request.
type fakeClient struct {
	responses []func(req BatchRequest) ([]GeneratedQuestion, error)
	calls     []BatchRequest
}

func (f *fakeClient) GenerateBatch(_ context.Context, req BatchRequest) ([]GeneratedQuestion, error) {
	f.calls = append(f.calls, req)
	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx](req)
}

// countingLimiter admits immediately and counts waits.
type countingLimiter struct {
	waits int
}

func (l *countingLimiter) WaitForAvailability(ctx context.Context) error {
	l.waits++
	return ctx.Err()
}

func questionsOfSize(n int) []GeneratedQuestion {
	qs := make([]GeneratedQuestion, n)
	for i := range qs {
		qs[i] = GeneratedQuestion{
			Content:     "q",
			Options:     []string{"a", "b", "c", "d"},
			Answer:      "a",
			Explanation: "e",
		}
	}
	return qs
}

func ok(req BatchRequest) ([]GeneratedQuestion, error) {
	return questionsOfSize(req.BatchSize), nil
}

func fail(err error) func(BatchRequest) ([]GeneratedQuestion, error) {
	return func(BatchRequest) ([]GeneratedQuestion, error) { return nil, err }
}

func testGenerator(client BatchClient, limiter Limiter) *Generator {
	return NewGenerator(client, limiter, config.AIConfig{
		MaxRetries:   3,
		RetryDelayMs: 1,
		BatchPauseMs: 0,
		BatchSize:    10,
	})
}

func TestGenerateQuestionsSingleBatch(t *testing.T) {
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){ok}}
	limiter := &countingLimiter{}
	g := testGenerator(client, limiter)

	questions, err := g.GenerateQuestions(context.Background(), GenerationParams{
		Category: "Math", Interest: "Space", Grade: 3, Count: 10,
	})

	require.NoError(t, err)
	assert.Len(t, questions, 10)
	assert.Len(t, client.calls, 1)
	assert.Equal(t, 1, limiter.waits)
}

func TestGenerateQuestionsSplitsIntoBatchesWithRemainder(t *testing.T) {
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){ok}}
	g := testGenerator(client, &countingLimiter{})

	questions, err := g.GenerateQuestions(context.Background(), GenerationParams{Count: 25})

	require.NoError(t, err)
	assert.Len(t, questions, 25)
	require.Len(t, client.calls, 3)
	assert.Equal(t, 10, client.calls[0].BatchSize)
	assert.Equal(t, 10, client.calls[1].BatchSize)
	assert.Equal(t, 5, client.calls[2].BatchSize)
}

func TestGenerateQuestionsRetriesTransientFailures(t *testing.T) {
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){
		fail(&ProviderError{Err: errors.New("boom")}),
		fail(&RateLimitedError{Err: errors.New("slow down")}),
		ok,
	}}
	limiter := &countingLimiter{}
	g := testGenerator(client, limiter)

	questions, err := g.GenerateQuestions(context.Background(), GenerationParams{Count: 10})

	require.NoError(t, err)
	assert.Len(t, questions, 10)
	assert.Len(t, client.calls, 3)
	// The limiter is consulted before every attempt, retries included.
	assert.Equal(t, 3, limiter.waits)
}

func TestGenerateQuestionsStopsAfterRetryBudget(t *testing.T) {
	provErr := &ProviderError{Err: errors.New("still down")}
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){fail(provErr)}}
	g := testGenerator(client, &countingLimiter{})

	_, err := g.GenerateQuestions(context.Background(), GenerationParams{Count: 10})

	require.Error(t, err)
	var got *ProviderError
	assert.ErrorAs(t, err, &got)
	assert.Len(t, client.calls, 3)
}

func TestGenerateQuestionsDoesNotRetryConfigurationErrors(t *testing.T) {
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){
		fail(&ConfigurationError{Reason: "bad key"}),
	}}
	g := testGenerator(client, &countingLimiter{})

	_, err := g.GenerateQuestions(context.Background(), GenerationParams{Count: 10})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, client.calls, 1)
}

func TestGenerateQuestionsEmptyResultIsAnError(t *testing.T) {
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){
		func(BatchRequest) ([]GeneratedQuestion, error) { return nil, nil },
	}}
	g := testGenerator(client, &countingLimiter{})

	_, err := g.GenerateQuestions(context.Background(), GenerationParams{Count: 10})

	assert.ErrorIs(t, err, ErrNoQuestionsGenerated)
}

func TestGenerateQuestionsHonorsCancellation(t *testing.T) {
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){ok}}
	g := testGenerator(client, &countingLimiter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateQuestions(ctx, GenerationParams{Count: 10})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.calls)
}

func TestGenerateQuestionsToleratesShortBatches(t *testing.T) {
	client := &fakeClient{responses: []func(BatchRequest) ([]GeneratedQuestion, error){
		func(req BatchRequest) ([]GeneratedQuestion, error) {
			return questionsOfSize(req.BatchSize - 2), nil
		},
	}}
	g := testGenerator(client, &countingLimiter{})

	questions, err := g.GenerateQuestions(context.Background(), GenerationParams{Count: 10})

	require.NoError(t, err)
	assert.Len(t, questions, 8)
}
