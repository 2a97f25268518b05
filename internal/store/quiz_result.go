package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var quizResultColumns = []string{
	"id", "sequence", "timestamp", "session_id", "topic", "difficulty",
	"total_count", "correct_count", "score", "duration_ms",
	"questions_per_minute", "notified",
}

func (r *eventRepo) AppendQuizResult(ctx context.Context, data QuizResultEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var qpm sql.NullFloat64
	if data.QuestionsPerMinute != nil {
		qpm = sql.NullFloat64{Float64: *data.QuestionsPerMinute, Valid: true}
	}

	query, args := builder().
		Insert(tableQuizResults).
		Columns(quizResultColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.SessionID,
			data.Topic,
			data.Difficulty,
			data.TotalCount,
			data.CorrectCount,
			data.Score,
			data.Duration.Milliseconds(),
			qpm,
			data.Notified,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizResultEvent, error) {
	sel := builder().
		Select(quizResultColumns...).
		From(entsql.Table(tableQuizResults)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizResultEvent
	for rows.Next() {
		var (
			e          QuizResultEvent
			ts         time.Time
			durationMs int64
			qpm        sql.NullFloat64
		)
		if err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Topic, &e.Difficulty,
			&e.TotalCount, &e.CorrectCount, &e.Score, &durationMs,
			&qpm, &e.Notified,
		); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		e.Timestamp = ts.UTC()
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if qpm.Valid {
			v := qpm.Float64
			e.QuestionsPerMinute = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
