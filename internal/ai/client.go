package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"thinkdrills_backend/internal/config"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// GeneratedQuestion is one validated multiple-choice question as returned by
// the provider. Options preserve provider order; Answer always matches one of
// them exactly.
type GeneratedQuestion struct {
	Content     string   `json:"content"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// BatchRequest asks for one provider call's worth of questions for a single
// (category, interest, grade) triple.
type BatchRequest struct {
	Category  string
	Interest  string
	Grade     int
	BatchSize int
}

// BatchClient is the single-call boundary the Generator retries over.
type BatchClient interface {
	GenerateBatch(ctx context.Context, req BatchRequest) ([]GeneratedQuestion, error)
}

// CompletionClient performs exactly one chat-completion call per
// GenerateBatch and classifies every failure into the typed errors in
// errors.go. It holds no mutable state.
type CompletionClient struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func NewCompletionClient(cfg config.AIConfig) (*CompletionClient, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Reason: "AI API key is not configured"}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &CompletionClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

const systemPrompt = "You are an expert educational content creator, specializing in creating engaging, age-appropriate questions that combine academic subjects with students' interests."

func buildPrompt(req BatchRequest) string {
	return fmt.Sprintf(`Generate %d multiple-choice educational questions for a grade %d student.
Subject: %s
Theme/Interest: %s

Requirements:
- Each question should be grade-appropriate
- Include 4 options for each question
- One option must be the correct answer
- Provide a clear explanation for the correct answer
- Make questions engaging and related to the student's interest in %s
- For Math questions, include age-appropriate calculations
- For other subjects, ensure factual accuracy and educational value

Format each question as a JSON object with:
- content: the question text
- options: array of 4 possible answers
- answer: the correct answer (must match one of the options exactly)
- explanation: detailed explanation of the correct answer

Return a JSON object with a "questions" array of question objects.`,
		req.BatchSize, req.Grade, req.Category, req.Interest, req.Interest)
}

// GenerateBatch performs the single network call and parses/validates the
// result. It may return fewer than req.BatchSize questions if the provider
// returned fewer; the caller decides whether that is acceptable.
func (c *CompletionClient) GenerateBatch(ctx context.Context, req BatchRequest) ([]GeneratedQuestion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &MalformedResponseError{Err: errors.New("provider returned no choices")}
	}

	return parseQuestions(resp.Choices[0].Message.Content)
}

type questionsPayload struct {
	Questions []GeneratedQuestion `json:"questions"`
}

func parseQuestions(content string) ([]GeneratedQuestion, error) {
	var payload questionsPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, &MalformedResponseError{Err: fmt.Errorf("parse provider payload: %w", err)}
	}

	if len(payload.Questions) == 0 {
		return nil, &MalformedResponseError{Err: errors.New("provider payload has no questions array")}
	}

	for i, q := range payload.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, &MalformedResponseError{Err: fmt.Errorf("question %d: %w", i, err)}
		}
	}

	return payload.Questions, nil
}

func validateQuestion(q GeneratedQuestion) error {
	if q.Content == "" {
		return errors.New("empty content")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(q.Options))
	}

	seen := make(map[string]bool, 4)
	answerFound := false
	for _, opt := range q.Options {
		if seen[opt] {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = true
		if opt == q.Answer {
			answerFound = true
		}
	}
	if !answerFound {
		return fmt.Errorf("answer %q is not one of the options", q.Answer)
	}
	return nil
}

// classifyError maps SDK and transport failures onto the typed taxonomy.
// Timeouts count as provider errors so the retry budget applies to them.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		switch {
		case code == "invalid_api_key" || apiErr.HTTPStatusCode == http.StatusUnauthorized:
			return &ConfigurationError{Reason: "AI API key was rejected", Err: err}
		case code == "model_not_found" || apiErr.HTTPStatusCode == http.StatusNotFound:
			return &ConfigurationError{Reason: "AI model is unavailable", Err: err}
		case code == "rate_limit_exceeded" || apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &RateLimitedError{Err: err}
		default:
			return &ProviderError{Status: apiErr.HTTPStatusCode, Err: err}
		}
	}
	return &ProviderError{Err: err}
}
