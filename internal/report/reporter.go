package report

import (
	"context"
	"fmt"

	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/session"
	"github.com/abhisek/quizforge/internal/store"
)

// Reporter scores a session and fans the result out to the audit log and
// the notifier. Both side effects are best effort.
type Reporter struct {
	repo     store.EventRepo
	notifier notify.Notifier
}

// NewReporter creates a Reporter. repo may be nil; a nil notifier is
// treated as NopNotifier.
func NewReporter(repo store.EventRepo, notifier notify.Notifier) *Reporter {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Reporter{repo: repo, notifier: notifier}
}

// Report builds the report for s, sends the notification and records the
// result. Failures of either side effect are returned as warnings and
// never change the report.
func (r *Reporter) Report(ctx context.Context, s *session.Session) (*Report, []string, error) {
	rep, err := Build(s)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string

	notified := false
	if err := r.notifier.Notify(ctx, rep.Summary()); err != nil {
		warnings = append(warnings, fmt.Sprintf("email report not sent: %v", err))
	} else if _, nop := r.notifier.(notify.NopNotifier); !nop {
		notified = true
	}

	if r.repo != nil {
		data := store.QuizResultEventData{
			SessionID:    rep.SessionID,
			Topic:        rep.Spec.Topic,
			Difficulty:   string(rep.Spec.Difficulty),
			TotalCount:   rep.TotalCount,
			CorrectCount: rep.CorrectCount,
			Score:        rep.Score,
			Duration:     rep.TotalTime,
			Notified:     notified,
		}
		if rep.RateDefined {
			qpm := rep.QuestionsPerMinute
			data.QuestionsPerMinute = &qpm
		}
		if err := r.repo.AppendQuizResult(ctx, data); err != nil {
			warnings = append(warnings, fmt.Sprintf("result not recorded: %v", err))
		}
	}

	return rep, warnings, nil
}
