package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/sync"
)

func testTask() *domain.Task {
	return &domain.Task{
		ID:       "implement-auth-flow.md",
		Title:    "Implement auth flow",
		Body:     "OAuth2 implementation details...",
		State:    "in_progress",
		Priority: "high",
		Tags:     []string{"feature", "auth"},
		Created:  time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		Updated:  time.Date(2025, 1, 18, 14, 30, 0, 0, time.UTC),
		Provider: domain.FileData{},
	}
}

func testTaskList() []*domain.Task {
	return []*domain.Task{
		{ID: "implement-auth-flow.md", Title: "Implement auth flow", State: "in_progress", Priority: "high", Provider: domain.FileData{}},
		{ID: "add-rate-limiting.md", Title: "Add rate limiting", State: "todo", Priority: "medium", Provider: domain.FileData{}},
	}
}

func TestFormatIsValid(t *testing.T) {
	tests := []struct {
		format Format
		valid  bool
	}{
		{FormatTable, true},
		{FormatJSON, true},
		{FormatPlain, true},
		{FormatIDOnly, true},
		{Format("invalid"), false},
		{Format(""), false},
	}

	for _, tt := range tests {
		if got := tt.format.IsValid(); got != tt.valid {
			t.Errorf("Format(%q).IsValid() = %v, want %v", tt.format, got, tt.valid)
		}
	}
}

func TestNewReturnsEachFormatter(t *testing.T) {
	cases := map[Format]string{
		FormatTable:  "*output.TableFormatter",
		FormatJSON:   "*output.JSONFormatter",
		FormatPlain:  "*output.PlainFormatter",
		FormatIDOnly: "*output.IDOnlyFormatter",
		Format("bogus"): "*output.TableFormatter", // unknown formats fall back to table
	}
	for format, want := range cases {
		got := New(format)
		if typeName(got) != want {
			t.Errorf("New(%q) = %T, want %s", format, got, want)
		}
	}
}

func typeName(f Formatter) string {
	switch f.(type) {
	case *TableFormatter:
		return "*output.TableFormatter"
	case *JSONFormatter:
		return "*output.JSONFormatter"
	case *PlainFormatter:
		return "*output.PlainFormatter"
	case *IDOnlyFormatter:
		return "*output.IDOnlyFormatter"
	default:
		return "unknown"
	}
}

func TestTableFormatterFormatTask(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.FormatTask(&buf, testTask()); err != nil {
		t.Fatalf("FormatTask() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"implement-auth-flow.md", "Implement auth flow", "in_progress", "high", "OAuth2 implementation"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatTask() output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatterFormatTaskListEmpty(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.FormatTaskList(&buf, nil); err != nil {
		t.Fatalf("FormatTaskList() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No tasks found") {
		t.Errorf("FormatTaskList(nil) = %q, want the empty-list message", buf.String())
	}
}

func TestJSONFormatterFormatTaskRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	task := testTask()
	if err := f.FormatTask(&buf, task); err != nil {
		t.Fatalf("FormatTask() error = %v", err)
	}
	var decoded struct {
		ID    string
		Title string
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != task.ID || decoded.Title != task.Title {
		t.Errorf("decoded task = %+v, want id/title matching %+v", decoded, task)
	}
}

func TestPlainFormatterFormatTaskList(t *testing.T) {
	var buf bytes.Buffer
	f := &PlainFormatter{}
	if err := f.FormatTaskList(&buf, testTaskList()); err != nil {
		t.Fatalf("FormatTaskList() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
}

func TestIDOnlyFormatterFormatTaskList(t *testing.T) {
	var buf bytes.Buffer
	f := &IDOnlyFormatter{}
	if err := f.FormatTaskList(&buf, testTaskList()); err != nil {
		t.Fatalf("FormatTaskList() error = %v", err)
	}
	want := "implement-auth-flow.md\nadd-rate-limiting.md\n"
	if buf.String() != want {
		t.Errorf("FormatTaskList() = %q, want %q", buf.String(), want)
	}
}

func TestFormatPushResultReportsErrors(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	result := &sync.PushResult{Created: []string{"me/repo#1"}, Errors: []string{"boom"}}
	if err := f.FormatPushResult(&buf, result); err != nil {
		t.Fatalf("FormatPushResult() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "me/repo#1") || !strings.Contains(out, "boom") {
		t.Errorf("FormatPushResult() = %q, want created id and error message", out)
	}
}
