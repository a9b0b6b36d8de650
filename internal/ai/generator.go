package ai

import (
	"context"
	"errors"
	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// GenerationParams describes one worksheet's worth of questions.
type GenerationParams struct {
	Category string
	Interest string
	Grade    int
	Count    int
}

// Limiter is what the Generator waits on before every provider attempt.
type Limiter interface {
	WaitForAvailability(ctx context.Context) error
}

// Generator is the only entry point handlers use for question generation. It
// splits a request into sequential batches, retries each batch with
// exponential backoff, and waits on the rate limiter before every attempt.
type Generator struct {
	client  BatchClient
	limiter Limiter

	maxRetries   int
	initialDelay time.Duration
	batchPause   time.Duration
	batchSize    int
}

func NewGenerator(client BatchClient, limiter Limiter, cfg config.AIConfig) *Generator {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 3
	}
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = 10
	}

	return &Generator{
		client:       client,
		limiter:      limiter,
		maxRetries:   maxRetries,
		initialDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		batchPause:   time.Duration(cfg.BatchPauseMs) * time.Millisecond,
		batchSize:    batchSize,
	}
}

// GenerateQuestions fulfils a request for params.Count questions. Batches are
// issued sequentially, never concurrently; the final batch carries the
// remainder when Count is not a multiple of the batch size. The result may be
// shorter than Count if the provider keeps returning short batches; a fully
// empty result is ErrNoQuestionsGenerated.
func (g *Generator) GenerateQuestions(ctx context.Context, params GenerationParams) ([]GeneratedQuestion, error) {
	questions := make([]GeneratedQuestion, 0, params.Count)

	batches := (params.Count + g.batchSize - 1) / g.batchSize
	for i := 0; i < batches; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		remaining := params.Count - i*g.batchSize
		size := g.batchSize
		if remaining < size {
			size = remaining
		}

		batch, err := g.generateWithRetry(ctx, BatchRequest{
			Category:  params.Category,
			Interest:  params.Interest,
			Grade:     params.Grade,
			BatchSize: size,
		})
		if err != nil {
			return nil, err
		}
		questions = append(questions, batch...)

		// Short pause between batches to avoid bursting the provider.
		if i < batches-1 && g.batchPause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.batchPause):
			}
		}
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestionsGenerated
	}
	return questions, nil
}

// generateWithRetry issues one batch with up to maxRetries attempts. The
// delay before attempt k is initialDelay * 2^(k-1). Configuration errors
// propagate immediately; everything else retries until the budget exhausts
// and the last classified error is returned unchanged.
func (g *Generator) generateWithRetry(ctx context.Context, req BatchRequest) ([]GeneratedQuestion, error) {
	var lastErr error

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if err := g.limiter.WaitForAvailability(ctx); err != nil {
			return nil, err
		}

		batch, err := g.client.GenerateBatch(ctx, req)
		if err == nil {
			return batch, nil
		}
		lastErr = err

		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		logger.Log.Warn("question batch attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("batch_size", req.BatchSize),
			zap.Error(err))

		if attempt < g.maxRetries-1 {
			delay := g.initialDelay << attempt
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return nil, lastErr
}
