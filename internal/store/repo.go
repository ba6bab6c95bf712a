package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	Purpose   string // LLM events only; empty = any
	SessionID string // empty = any
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// GenerationEventData captures one quiz generation, cached or not.
type GenerationEventData struct {
	SessionID    string
	Topic        string
	Count        int
	CacheKey     string
	CacheHit     bool
	Placeholder  bool
	Repairs      int
	LatencyMs    int64
	ErrorMessage string
}

// GenerationEventRecord is a stored generation event.
type GenerationEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

// PurposeUsage aggregates LLM calls sharing a purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls served by one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to diagnostic events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendGeneration records a quiz generation.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// QueryGenerationEvents returns generation events, newest first.
	QueryGenerationEvents(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
