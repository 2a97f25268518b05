package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizforge/internal/quiz"
)

// Phase represents the lifecycle phase of a session.
type Phase int

const (
	PhaseEmpty     Phase = iota // No quiz loaded
	PhaseActive                 // Quiz loaded, collecting answers
	PhaseSubmitted              // Answers frozen, ready for scoring
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseActive:
		return "active"
	case PhaseSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ValidationError is returned when a transition's precondition fails.
// The session is left unchanged.
type ValidationError struct {
	Message string

	// Unanswered lists question indices without an answer, for Submit.
	Unanswered []int
}

func (e *ValidationError) Error() string { return e.Message }

// PhaseError is returned when an operation is not allowed in the current
// phase.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("cannot %s: session is %s", e.Op, e.Phase)
}

// Session is the run-time record of one user's progress through a quiz.
// It owns its quiz and answers. All methods are safe for concurrent use,
// though a single actor is expected.
type Session struct {
	mu  sync.Mutex
	now func() time.Time

	id        string
	phase     Phase
	spec      quiz.Spec
	quiz      *quiz.Quiz
	answers   map[int]string
	startTime time.Time
	totalTime time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads a freshly generated quiz. Allowed from Empty or Submitted;
// any previous quiz and answers are discarded.
func (s *Session) Start(q *quiz.Quiz, spec quiz.Spec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseActive {
		return &PhaseError{Op: "start a new quiz", Phase: s.phase}
	}
	if q.Len() == 0 {
		return &ValidationError{Message: "quiz has no questions"}
	}

	s.id = uuid.NewString()
	s.phase = PhaseActive
	s.spec = spec
	s.quiz = q
	s.answers = make(map[int]string, q.Len())
	s.startTime = s.now()
	s.totalTime = 0
	return nil
}

// SelectAnswer records the letter of option (its first character) for
// question i, replacing any earlier answer. Only allowed while Active.
func (s *Session) SelectAnswer(i int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return &PhaseError{Op: "answer", Phase: s.phase}
	}
	if i < 0 || i >= s.quiz.Len() {
		return &ValidationError{Message: fmt.Sprintf("question %d does not exist", i+1)}
	}
	letter := quiz.AnswerLetter(option)
	if letter == "" {
		return &ValidationError{Message: "empty option"}
	}

	s.answers[i] = letter
	return nil
}

// Submit freezes the answers and records the total time. It is rejected
// with a *ValidationError until every question has an answer.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return &PhaseError{Op: "submit", Phase: s.phase}
	}

	var missing []int
	for i := 0; i < s.quiz.Len(); i++ {
		if _, ok := s.answers[i]; !ok {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Message:    "answer all questions before submitting",
			Unanswered: missing,
		}
	}

	elapsed := s.now().Sub(s.startTime)
	if elapsed < 0 {
		elapsed = 0
	}
	s.totalTime = elapsed
	s.phase = PhaseSubmitted
	return nil
}

// Reset discards the quiz, answers and timing, returning to Empty.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = ""
	s.phase = PhaseEmpty
	s.spec = quiz.Spec{}
	s.quiz = nil
	s.answers = nil
	s.startTime = time.Time{}
	s.totalTime = 0
}

// ID returns the session's UUID, assigned at Start. Empty when no quiz is
// loaded.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Spec returns the spec the quiz was generated for.
func (s *Session) Spec() quiz.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Quiz returns the loaded quiz, or nil when Empty.
func (s *Session) Quiz() *quiz.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

// Answer returns the letter recorded for question i.
func (s *Session) Answer(i int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[i]
	return a, ok
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyAnswers()
}

func (s *Session) copyAnswers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Snapshot is a point-in-time copy of a session, read under one lock.
type Snapshot struct {
	ID        string
	Phase     Phase
	Spec      quiz.Spec
	Quiz      *quiz.Quiz
	Answers   map[int]string
	StartTime time.Time
	TotalTime time.Duration
}

// Snapshot returns the session's state as one consistent copy. The quiz
// pointer is shared; quizzes are not modified after Start.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.id,
		Phase:     s.phase,
		Spec:      s.spec,
		Quiz:      s.quiz,
		Answers:   s.copyAnswers(),
		StartTime: s.startTime,
		TotalTime: s.totalTime,
	}
}

// AnsweredCount returns the number of questions with an answer.
func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// Unanswered returns the indices of questions without an answer, ascending.
func (s *Session) Unanswered() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for i := 0; i < s.quiz.Len(); i++ {
		if _, ok := s.answers[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// StartTime returns when the quiz was loaded.
func (s *Session) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// Elapsed returns the time since Start while Active, and the frozen total
// once Submitted.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseActive:
		return s.now().Sub(s.startTime)
	case PhaseSubmitted:
		return s.totalTime
	}
	return 0
}

// TotalTime returns the duration captured at Submit, or zero before.
func (s *Session) TotalTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalTime
}
