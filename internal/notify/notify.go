package notify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Summary is what a notification carries about a graded quiz.
type Summary struct {
	Topic        string
	Difficulty   string
	Score        float64
	TotalTime    time.Duration
	CorrectCount int
	TotalCount   int

	// QuestionsPerMinute is only meaningful when RateDefined is true.
	QuestionsPerMinute float64
	RateDefined        bool
}

// Notifier delivers a quiz summary somewhere outside the process.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// NotificationError is returned when a summary could not be delivered.
type NotificationError struct {
	Op  string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed (%s): %v", e.Op, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// NopNotifier discards summaries. Used when email is not configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Summary) error { return nil }

// FormatRate renders a questions-per-minute value, or "instant" when the
// rate is undefined.
func FormatRate(qpm float64, defined bool) string {
	if !defined {
		return "instant"
	}
	return fmt.Sprintf("%.2f questions/min", qpm)
}

// FormatDuration renders d as "1m05s" style text rounded to the second.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// FormatPlainText renders s as the body of a plain-text report.
func FormatPlainText(s Summary) string {
	var b strings.Builder

	b.WriteString("Quiz Report\n")
	b.WriteString("===========\n\n")
	fmt.Fprintf(&b, "Topic:       %s\n", s.Topic)
	fmt.Fprintf(&b, "Difficulty:  %s\n", s.Difficulty)
	fmt.Fprintf(&b, "Score:       %.1f%%\n", s.Score)
	fmt.Fprintf(&b, "Correct:     %d of %d\n", s.CorrectCount, s.TotalCount)
	fmt.Fprintf(&b, "Time taken:  %s\n", FormatDuration(s.TotalTime))
	fmt.Fprintf(&b, "Pace:        %s\n", FormatRate(s.QuestionsPerMinute, s.RateDefined))

	return b.String()
}
