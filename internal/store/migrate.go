package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	kvTable           = "kv_entries"
	resultsTable      = "test_results"
	sessionEventTable = "session_events"
	llmEventTable     = "llm_request_events"
)

var (
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeTime},
	}
	kvEntriesTable = &schema.Table{
		Name:       kvTable,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	resultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "exam_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "teacher_code", Type: field.TypeString, Default: ""},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "attempted", Type: field.TypeInt, Default: 0},
		{Name: "total", Type: field.TypeInt, Default: 0},
		{Name: "accuracy", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "marked", Type: field.TypeInt, Default: 0},
		{Name: "time_taken_secs", Type: field.TypeInt, Default: 0},
		{Name: "auto_submitted", Type: field.TypeBool, Default: false},
		{Name: "submitted_at", Type: field.TypeTime},
	}
	testResultsTable = &schema.Table{
		Name:       resultsTable,
		Columns:    resultColumns,
		PrimaryKey: []*schema.Column{resultColumns[0]},
		Indexes: []*schema.Index{
			{Name: "testresult_exam_id", Columns: []*schema.Column{resultColumns[2]}},
			{Name: "testresult_submitted_at", Columns: []*schema.Column{resultColumns[15]}},
		},
	}

	sessionEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "exam_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "attempted", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "remaining_secs", Type: field.TypeInt, Default: 0},
	}
	sessionEventsTable = &schema.Table{
		Name:       sessionEventTable,
		Columns:    sessionEventColumns,
		PrimaryKey: []*schema.Column{sessionEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id", Columns: []*schema.Column{sessionEventColumns[3]}},
		},
	}

	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       llmEventTable,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{llmEventColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
		},
	}

	tables = []*schema.Table{
		kvEntriesTable,
		testResultsTable,
		sessionEventsTable,
		llmRequestEventsTable,
	}
)

// migrate creates or upgrades every table. Columns are only ever added.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}
