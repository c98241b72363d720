package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2:3b-instruct"
)

// OllamaProvider implements Provider against a local Ollama server's
// /api/generate endpoint. The response text is returned as-is: models are
// asked for JSON but nothing guarantees they comply.
type OllamaProvider struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllamaProvider creates a provider for the Ollama server at cfg.BaseURL.
// A nil client uses http.DefaultClient; deadlines come from the request
// context.
func NewOllamaProvider(cfg OllamaConfig, client *http.Client) (*OllamaProvider, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OllamaProvider{httpClient: client, baseURL: baseURL, model: model}, nil
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Format  any           `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	body := ollamaGenerateRequest{
		Model:  model,
		Prompt: buildOllamaPrompt(req.Messages),
		System: req.System,
		Stream: false,
		Format: "json",
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumCtx:      req.ContextSize,
			NumPredict:  req.MaxTokens,
		},
	}
	if req.Schema != nil {
		body.Format = req.Schema.Definition
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ErrGenerationUnavailable{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ErrGenerationUnavailable{Err: fmt.Errorf("read body: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, mapOllamaStatus(httpResp, raw)
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ErrGenerationUnavailable{
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("decode envelope: %w", err),
		}
	}

	served := out.Model
	if served == "" {
		served = model
	}

	return &Response{
		Content: json.RawMessage(out.Response),
		Usage: Usage{
			InputTokens:  out.PromptEvalCount,
			OutputTokens: out.EvalCount,
			TotalTokens:  out.PromptEvalCount + out.EvalCount,
		},
		Model:      served,
		StopReason: mapOllamaDoneReason(out.DoneReason),
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

// buildOllamaPrompt flattens the conversation into the single prompt string
// /api/generate accepts.
func buildOllamaPrompt(msgs []Message) string {
	if len(msgs) == 1 {
		return msgs[0].Content
	}
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.Role == RoleAssistant {
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}

func mapOllamaDoneReason(reason string) string {
	if reason == "length" {
		return "max_tokens"
	}
	return "end"
}

func mapOllamaStatus(resp *http.Response, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		msg = envelope.Error
	}
	return statusError(resp.StatusCode, retryAfter(resp.Header), errors.New(msg))
}
