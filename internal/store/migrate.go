package store

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/quizforge/ent/schema"
)

const (
	tableLLMEvents   = "llm_request_events"
	tableQuizResults = "quiz_result_events"
	tableSequence    = "global_sequence"
)

// Tables returns the audit log tables, derived from the ent schemas.
func Tables() []*schema.Table {
	return []*schema.Table{
		tableFor(tableLLMEvents, entschema.LLMRequestEvent{}),
		tableFor(tableQuizResults, entschema.QuizResultEvent{}),
		sequenceTable(),
	}
}

// migrate creates or updates every table through ent's migration engine.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables()...)
}

// tableFor lays out an ent schema as a table: an auto-increment id, then
// mixin fields, then the schema's own fields.
func tableFor(name string, s ent.Interface) *schema.Table {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := schema.NewTable(name)
	t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	for _, f := range fields {
		t.AddColumn(columnFor(f.Descriptor()))
	}
	for _, idx := range indexes {
		d := idx.Descriptor()
		t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t
}

func columnFor(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Size:     int64(d.Size),
		Unique:   d.Unique,
		Nullable: d.Optional,
		Comment:  d.Comment,
	}
	// Generated defaults like time.Now are filled in by the caller.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}

// sequenceTable holds the single counter row behind sequenceCounter.
func sequenceTable() *schema.Table {
	t := schema.NewTable(tableSequence)
	t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt})
	t.AddColumn(&schema.Column{Name: "next_val", Type: field.TypeInt64, Default: 1})
	return t
}

// seedSequence inserts the counter row unless it already exists.
func seedSequence(ctx context.Context, db *sql.DB) error {
	query, args := builder().
		Insert(tableSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}
