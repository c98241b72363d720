package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Purpose string // exact purpose match, LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageByPurpose aggregates LLM calls per purpose label.
type UsageByPurpose struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// UsageByModel aggregates LLM calls per served model.
type UsageByModel struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// AnswerEventData captures one submitted or skipped quiz answer.
type AnswerEventData struct {
	SessionID  string
	ItemID     string
	ItemType   string
	UserAnswer string
	Graded     bool
	Correct    bool
	Skipped    bool
}

// AnswerEvent is a stored answer event.
type AnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]UsageByPurpose, error)
	LLMUsageByModel(ctx context.Context) ([]UsageByModel, error)

	// AppendAnswerEvent records a quiz answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QueryAnswerEvents returns answer events, oldest first.
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)
}

// ReviewRecord is the persisted scheduling state of one item.
// NextReview is a calendar date in the local zone.
type ReviewRecord struct {
	ItemID       string
	IntervalDays int
	EaseFactor   float64
	NextReview   time.Time
	Repetitions  int
}

// ReviewRepo persists spaced-repetition records and the items they refer to.
type ReviewRepo interface {
	// SaveReview inserts or replaces the record for rec.ItemID.
	SaveReview(ctx context.Context, rec ReviewRecord) error

	// LoadReviews returns every stored record.
	LoadReviews(ctx context.Context) ([]ReviewRecord, error)

	// SaveItem stores an opaque item payload under id. Existing payloads
	// are kept.
	SaveItem(ctx context.Context, id string, payload []byte) error

	// GetItems returns the payloads for ids that exist, keyed by id.
	GetItems(ctx context.Context, ids []string) (map[string][]byte, error)
}
