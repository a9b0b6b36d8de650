package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"thinkdrills_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestionsJSON(n int) string {
	questions := make([]GeneratedQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, GeneratedQuestion{
			Content:     "What is 2 + 2?",
			Options:     []string{"3", "4", "5", "6"},
			Answer:      "4",
			Explanation: "2 + 2 equals 4.",
		})
	}
	payload, _ := json.Marshal(questionsPayload{Questions: questions})
	return string(payload)
}

// completionServer fakes the chat-completions endpoint, returning the given
// message content.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": content,
					},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func errorServer(t *testing.T, status int, code string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "test failure",
				"type":    "test",
				"code":    code,
			},
		})
	}))
}

func testClient(t *testing.T, baseURL string) *CompletionClient {
	t.Helper()
	client, err := NewCompletionClient(config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL + "/v1",
		Model:          "gpt-3.5-turbo",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return client
}

func TestNewCompletionClientRequiresAPIKey(t *testing.T) {
	_, err := NewCompletionClient(config.AIConfig{})

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestGenerateBatchParsesQuestions(t *testing.T) {
	srv := completionServer(t, validQuestionsJSON(3))
	defer srv.Close()

	questions, err := testClient(t, srv.URL).GenerateBatch(context.Background(), BatchRequest{
		Category:  "Math",
		Interest:  "Space",
		Grade:     3,
		BatchSize: 3,
	})

	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "4", questions[0].Answer)
	assert.Len(t, questions[0].Options, 4)
}

func TestGenerateBatchRejectsUnparseablePayload(t *testing.T) {
	srv := completionServer(t, "not json at all")
	defer srv.Close()

	_, err := testClient(t, srv.URL).GenerateBatch(context.Background(), BatchRequest{BatchSize: 1})

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestGenerateBatchClassifiesAPIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "invalid key is a configuration error",
			status: http.StatusUnauthorized,
			code:   "invalid_api_key",
			check: func(t *testing.T, err error) {
				var cfgErr *ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
			},
		},
		{
			name:   "missing model is a configuration error",
			status: http.StatusNotFound,
			code:   "model_not_found",
			check: func(t *testing.T, err error) {
				var cfgErr *ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
			},
		},
		{
			name:   "429 is a rate limit error",
			status: http.StatusTooManyRequests,
			code:   "rate_limit_exceeded",
			check: func(t *testing.T, err error) {
				var rateErr *RateLimitedError
				assert.ErrorAs(t, err, &rateErr)
			},
		},
		{
			name:   "500 is a provider error",
			status: http.StatusInternalServerError,
			code:   "server_error",
			check: func(t *testing.T, err error) {
				var provErr *ProviderError
				assert.ErrorAs(t, err, &provErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := errorServer(t, tt.status, tt.code)
			defer srv.Close()

			_, err := testClient(t, srv.URL).GenerateBatch(context.Background(), BatchRequest{BatchSize: 1})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestValidateQuestion(t *testing.T) {
	base := GeneratedQuestion{
		Content:     "Pick one",
		Options:     []string{"a", "b", "c", "d"},
		Answer:      "a",
		Explanation: "because",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateQuestion(base))
	})

	t.Run("answer not in options", func(t *testing.T) {
		q := base
		q.Answer = "e"
		assert.Error(t, validateQuestion(q))
	})

	t.Run("wrong option count", func(t *testing.T) {
		q := base
		q.Options = []string{"a", "b", "c"}
		assert.Error(t, validateQuestion(q))
	})

	t.Run("duplicate options", func(t *testing.T) {
		q := base
		q.Options = []string{"a", "a", "c", "d"}
		assert.Error(t, validateQuestion(q))
	})

	t.Run("empty content", func(t *testing.T) {
		q := base
		q.Content = ""
		assert.Error(t, validateQuestion(q))
	})
}

func TestParseQuestionsRejectsEmptyArray(t *testing.T) {
	_, err := parseQuestions(`{"questions": []}`)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}
