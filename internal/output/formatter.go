// Package output provides formatters for displaying task and sync data in
// table, JSON, plain, and id-only formats. Adapted from the teacher's
// internal/output package: same Format/Formatter/New shape, generalized from
// backend.Task/backend.SyncResult to this module's domain.Task and sync
// package results, and trimmed of formatting concerns (claim/release/health
// check) this spec's Non-goals exclude.
package output

import (
	"io"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/sync"
)

// Format represents an output format type.
type Format string

const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatPlain  Format = "plain"
	FormatIDOnly Format = "id-only"
)

// ValidFormats returns all valid format values.
func ValidFormats() []Format {
	return []Format{FormatTable, FormatJSON, FormatPlain, FormatIDOnly}
}

// IsValid checks if the format is a valid output format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatPlain, FormatIDOnly:
		return true
	default:
		return false
	}
}

// Formatter defines the interface for outputting task and sync data.
type Formatter interface {
	// FormatTask outputs a single task, including its body and comments.
	FormatTask(w io.Writer, task *domain.Task) error

	// FormatTaskList outputs a list of tasks in board order.
	FormatTaskList(w io.Writer, tasks []*domain.Task) error

	// FormatComments outputs a task's comments.
	FormatComments(w io.Writer, comments []domain.Comment) error

	// FormatCreated outputs the result of creating a task.
	FormatCreated(w io.Writer, task *domain.Task) error

	// FormatMoved outputs the result of moving a task to a new column.
	FormatMoved(w io.Writer, task *domain.Task, oldState, newState string) error

	// FormatUpdated outputs the result of updating a task.
	FormatUpdated(w io.Writer, task *domain.Task) error

	// FormatDeleted outputs the result of deleting a task.
	FormatDeleted(w io.Writer, id string) error

	// FormatPushResult outputs the result of PushNewIssues or PushUpdates.
	FormatPushResult(w io.Writer, result *sync.PushResult) error

	// FormatSyncResult outputs the result of SyncFromGitHub.
	FormatSyncResult(w io.Writer, result *sync.SyncResult) error

	// FormatChangeSet outputs the result of DetectChanges.
	FormatChangeSet(w io.Writer, changes *sync.ChangeSet) error

	// FormatError outputs an error.
	FormatError(w io.Writer, message string) error

	// FormatConfig outputs the loaded configuration.
	FormatConfig(w io.Writer, cfg *config.Config) error
}

// New creates a formatter for the specified format.
func New(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatPlain:
		return &PlainFormatter{}
	case FormatIDOnly:
		return &IDOnlyFormatter{}
	case FormatTable:
		fallthrough
	default:
		return &TableFormatter{}
	}
}
