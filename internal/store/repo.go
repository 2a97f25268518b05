package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int   // max results (0 = unlimited)
	After  int64 // sequence > After
	Before int64 // sequence < Before
}

// LLMRequestEventData captures the data for a single model call.
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

// LLMRequestEvent is a recorded model call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates model calls for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates model calls for one model ID.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizResultEventData captures a graded quiz.
type QuizResultEventData struct {
	SessionID    string
	Topic        string
	Difficulty   string
	TotalCount   int
	CorrectCount int
	Score        float64
	Duration     time.Duration

	// QuestionsPerMinute is nil when the quiz was submitted with zero
	// elapsed time.
	QuestionsPerMinute *float64

	Notified bool
}

// QuizResultEvent is a recorded quiz result.
type QuizResultEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizResultEventData
}

// EventRepo provides append and query access to the audit log.
type EventRepo interface {
	// AppendLLMRequest records a model call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns model calls, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one model call by ID, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendQuizResult records a graded quiz.
	AppendQuizResult(ctx context.Context, data QuizResultEventData) error

	// QueryQuizResults returns graded quizzes, newest first.
	QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizResultEvent, error)
}

// eventRepo implements EventRepo on SQLite.
type eventRepo struct {
	db  dbtx
	seq *sequenceCounter
}
