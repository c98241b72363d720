package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var answerSchema = &Schema{
	Name: "completion-test-answer",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"answer": map[string]any{"type": "string"}},
		"required":   []any{"answer"},
	},
}

func TestFinish_StripsFenceAndValidates(t *testing.T) {
	resp, err := finish(Request{Schema: answerSchema}, completion{
		text:  "```json\n{\"answer\":\"Hepatocyte\"}\n```",
		model: "m",
		stop:  "end",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":"Hepatocyte"}`, string(resp.Content))
	assert.Equal(t, "m", resp.Model)
}

func TestFinish_TruncatedReplyIsMaxTokens(t *testing.T) {
	_, err := finish(Request{Schema: answerSchema}, completion{text: `{"answer":"Hepa`, stop: "max_tokens"})
	var mt *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &mt)

	_, err = finish(Request{Schema: answerSchema}, completion{text: `{"answer":7}`, stop: "end"})
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
}

func TestFinish_LenientSchemaSkipsValidation(t *testing.T) {
	resp, err := finish(Request{Schema: answerSchema, LenientSchema: true}, completion{text: "```\n{\"answer\":7}\n```", stop: "end"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":7}`, string(resp.Content))
}

func TestFinish_NoSchemaPassesText(t *testing.T) {
	resp, err := finish(Request{}, completion{text: "not json", stop: "end"})
	require.NoError(t, err)
	assert.Equal(t, "not json", string(resp.Content))
}

func TestStatusError(t *testing.T) {
	limited := statusError(http.StatusTooManyRequests, 3*time.Second, errors.New("slow down"))
	var rl *ErrRateLimit
	require.ErrorAs(t, limited, &rl)
	assert.Equal(t, 3*time.Second, rl.RetryAfter)
	var limitedUnavail *ErrGenerationUnavailable
	require.ErrorAs(t, limited, &limitedUnavail)
	assert.Equal(t, http.StatusTooManyRequests, limitedUnavail.StatusCode)
	assert.Contains(t, limited.Error(), "slow down")

	var unavail *ErrGenerationUnavailable
	require.ErrorAs(t, statusError(http.StatusBadGateway, 0, errors.New("bad gateway")), &unavail)
	assert.Equal(t, http.StatusBadGateway, unavail.StatusCode)

	require.ErrorAs(t, statusError(0, 0, errors.New("dial")), &unavail)
	assert.Zero(t, unavail.StatusCode)
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, retryAfter(h))
	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfter(h))
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, retryAfter(h))
	assert.Zero(t, retryAfter(nil))
}

func TestPickModel(t *testing.T) {
	assert.Equal(t, "configured", pickModel("", "configured", openaiModels))
	assert.Equal(t, "gpt-4o", pickModel("gpt-4o", "configured", openaiModels))
	assert.Equal(t, "custom-id", pickModel("custom-id", "configured", openaiModels))
}

func TestOpenRouterProvider_SendsAppTitle(t *testing.T) {
	var title, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("X-Title")
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion("meta-llama/llama-3.1-8b-instruct", `{"answer":"Kupffer cells"}`, "stop"))
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "or-key",
		Model:   "meta-llama/llama-3.1-8b-instruct",
		BaseURL: server.URL + "/v1",
	})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "x"}},
		Schema:   answerSchema,
	})
	require.NoError(t, err)
	assert.Equal(t, openRouterAppTitle, title)
	assert.Equal(t, "Bearer or-key", auth)
	assert.JSONEq(t, `{"answer":"Kupffer cells"}`, string(resp.Content))
}

func TestAnthropicProvider_RateLimitRetryAfter(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		anthropicErrorHandler(http.StatusTooManyRequests, "rate_limit_error")(w, r)
	})
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 16})
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 2*time.Second, rl.RetryAfter)
}
