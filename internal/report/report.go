package report

import (
	"fmt"
	"time"

	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/session"
)

// Score bands, inclusive at their lower bound.
const (
	ExcellentThreshold = 80.0
	PassThreshold      = 60.0
)

// QuestionResult is the outcome for one question.
type QuestionResult struct {
	Question quiz.Question
	Selected string
	Correct  bool
}

// Report is the scoring summary of a submitted session. It is derived
// data and is not retained by the session.
type Report struct {
	SessionID string
	Spec      quiz.Spec

	// Score is a percentage in [0, 100].
	Score        float64
	CorrectCount int
	TotalCount   int
	TotalTime    time.Duration

	// QuestionsPerMinute is zero and RateDefined false when TotalTime is
	// zero.
	QuestionsPerMinute float64
	RateDefined        bool

	Message string
	Results []QuestionResult
}

// Build scores a submitted session.
func Build(s *session.Session) (*Report, error) {
	snap := s.Snapshot()
	if snap.Phase != session.PhaseSubmitted {
		return nil, &session.PhaseError{Op: "build report", Phase: snap.Phase}
	}

	q := snap.Quiz
	spec := snap.Spec

	r := &Report{
		SessionID:  snap.ID,
		Spec:       spec,
		TotalCount: q.Len(),
		TotalTime:  snap.TotalTime,
		Results:    make([]QuestionResult, 0, q.Len()),
	}

	for i, question := range q.Questions {
		selected := snap.Answers[i]
		correct := selected != "" && selected == question.CorrectAnswer
		if correct {
			r.CorrectCount++
		}
		r.Results = append(r.Results, QuestionResult{
			Question: question,
			Selected: selected,
			Correct:  correct,
		})
	}

	r.Score = Score(r.CorrectCount, r.TotalCount)
	r.QuestionsPerMinute, r.RateDefined = Rate(r.TotalCount, r.TotalTime)
	r.Message = Message(r.Score, spec.Difficulty)

	return r, nil
}

// Score returns 100*correct/total, or 0 when total is zero.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}

// Rate returns questions per minute. ok is false for a zero or negative
// duration, in which case the rate is reported as instant.
func Rate(total int, elapsed time.Duration) (qpm float64, ok bool) {
	if elapsed <= 0 {
		return 0, false
	}
	return float64(total) / elapsed.Minutes(), true
}

var excellentMessages = map[quiz.Difficulty]string{
	quiz.DifficultyEasy:   "Excellent! You have the fundamentals down. Try medium difficulty next.",
	quiz.DifficultyMedium: "Impressive! You handle applied problems well. Ready for a hard quiz?",
	quiz.DifficultyHard:   "Outstanding! You have mastered advanced material on this topic.",
}

const (
	defaultExcellentMessage = "Excellent work!"
	passMessage             = "Good effort! Review the explanations below to close the gaps."
	failMessage             = "Keep practicing. Review the material and try the quiz again."
)

// Message picks the feedback line for a score.
func Message(score float64, d quiz.Difficulty) string {
	switch {
	case score >= ExcellentThreshold:
		if m, ok := excellentMessages[d]; ok {
			return m
		}
		return defaultExcellentMessage
	case score >= PassThreshold:
		return passMessage
	default:
		return failMessage
	}
}

// RateString renders the pace for display.
func (r *Report) RateString() string {
	return notify.FormatRate(r.QuestionsPerMinute, r.RateDefined)
}

// Summary converts the report to what notifications carry.
func (r *Report) Summary() notify.Summary {
	return notify.Summary{
		Topic:              r.Spec.Topic,
		Difficulty:         string(r.Spec.Difficulty),
		Score:              r.Score,
		TotalTime:          r.TotalTime,
		CorrectCount:       r.CorrectCount,
		TotalCount:         r.TotalCount,
		QuestionsPerMinute: r.QuestionsPerMinute,
		RateDefined:        r.RateDefined,
	}
}

// String is a one-line summary, e.g. for the CLI.
func (r *Report) String() string {
	return fmt.Sprintf("%d/%d correct (%.1f%%) in %s, %s",
		r.CorrectCount, r.TotalCount, r.Score, notify.FormatDuration(r.TotalTime), r.RateString())
}
