package llm

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// completion is a backend reply reduced to what every hosted API reports.
type completion struct {
	text  string
	usage Usage
	model string
	stop  string
}

// finish turns a backend reply into a Response. A surrounding code fence is
// removed so callers see bare JSON. With a strict schema the content must
// validate; a truncated reply that does not is ErrMaxTokensExceeded.
func finish(req Request, c completion) (*Response, error) {
	content := stripCodeFence(json.RawMessage(c.text))
	if req.Schema != nil && !req.LenientSchema {
		if err := validateResponse(req.Schema, content); err != nil {
			if c.stop == "max_tokens" {
				return nil, &ErrMaxTokensExceeded{Content: content}
			}
			return nil, err
		}
	}
	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}

// statusError maps a backend failure onto the package error types. status
// is zero when the endpoint never answered. A rate limit still unwraps to
// ErrGenerationUnavailable.
func statusError(status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{
			RetryAfter: retryAfter,
			Err:        &ErrGenerationUnavailable{StatusCode: status, Err: err},
		}
	case status >= 400:
		return &ErrGenerationUnavailable{StatusCode: status, Err: err}
	}
	return &ErrGenerationUnavailable{Err: err}
}

// retryAfter reads a Retry-After header given in whole seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so direct IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

// pickModel returns the per-request override when set, else the
// provider's configured model.
func pickModel(override, configured string, models map[string]string) string {
	if override == "" {
		return configured
	}
	return resolveModel(override, models)
}
