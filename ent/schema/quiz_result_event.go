package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizResultEvent records one graded quiz.
type QuizResultEvent struct {
	ent.Schema
}

func (QuizResultEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizResultEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id"),
		field.String("topic"),
		field.String("difficulty"),
		field.Int("total_count"),
		field.Int("correct_count"),
		field.Float("score").
			Comment("Percentage correct, 0 to 100"),
		field.Int64("duration_ms"),
		field.Float("questions_per_minute").
			Optional().
			Nillable().
			Comment("Null when the quiz took no measurable time"),
		field.Bool("notified").
			Default(false).
			Comment("Whether the report email was sent"),
	}
}

func (QuizResultEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("topic"),
	}
}
