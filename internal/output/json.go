package output

import (
	"encoding/json"
	"io"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/sync"
)

// JSONFormatter outputs data in JSON format.
type JSONFormatter struct{}

// FormatTask outputs a single task as JSON.
func (f *JSONFormatter) FormatTask(w io.Writer, task *domain.Task) error {
	return f.writeJSON(w, task)
}

// FormatTaskList outputs a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(w io.Writer, tasks []*domain.Task) error {
	return f.writeJSON(w, map[string]any{"tasks": tasks, "count": len(tasks)})
}

// FormatComments outputs a task's comments as JSON.
func (f *JSONFormatter) FormatComments(w io.Writer, comments []domain.Comment) error {
	return f.writeJSON(w, map[string]any{"comments": comments, "count": len(comments)})
}

// FormatCreated outputs the result of creating a task as JSON.
func (f *JSONFormatter) FormatCreated(w io.Writer, task *domain.Task) error {
	return f.writeJSON(w, task)
}

// FormatMoved outputs the result of moving a task as JSON.
func (f *JSONFormatter) FormatMoved(w io.Writer, task *domain.Task, oldState, newState string) error {
	return f.writeJSON(w, map[string]any{
		"id":        task.ID,
		"title":     task.Title,
		"old_state": oldState,
		"new_state": newState,
	})
}

// FormatUpdated outputs the result of updating a task as JSON.
func (f *JSONFormatter) FormatUpdated(w io.Writer, task *domain.Task) error {
	return f.writeJSON(w, task)
}

// FormatDeleted outputs the result of deleting a task as JSON.
func (f *JSONFormatter) FormatDeleted(w io.Writer, id string) error {
	return f.writeJSON(w, map[string]any{"id": id, "deleted": true})
}

// FormatPushResult outputs the result of PushNewIssues or PushUpdates as JSON.
func (f *JSONFormatter) FormatPushResult(w io.Writer, result *sync.PushResult) error {
	return f.writeJSON(w, result)
}

// FormatSyncResult outputs the result of SyncFromGitHub as JSON.
func (f *JSONFormatter) FormatSyncResult(w io.Writer, result *sync.SyncResult) error {
	return f.writeJSON(w, result)
}

// FormatChangeSet outputs the result of DetectChanges as JSON.
func (f *JSONFormatter) FormatChangeSet(w io.Writer, changes *sync.ChangeSet) error {
	return f.writeJSON(w, changes)
}

// FormatError outputs an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, message string) error {
	return f.writeJSON(w, map[string]any{"error": message})
}

// FormatConfig outputs the loaded configuration as JSON.
func (f *JSONFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	return f.writeJSON(w, cfg)
}

// writeJSON encodes the value as indented JSON and writes it to w.
func (f *JSONFormatter) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
