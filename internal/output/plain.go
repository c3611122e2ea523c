package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/sync"
)

// PlainFormatter outputs data in plain, tab-separated text, suitable for
// scripting.
type PlainFormatter struct{}

// FormatTask outputs a single task's fields followed by its body.
func (f *PlainFormatter) FormatTask(w io.Writer, task *domain.Task) error {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s", task.ID, task.State, task.Priority, task.Title)
	if len(task.Tags) > 0 {
		fmt.Fprintf(w, "\t%s", strings.Join(task.Tags, ","))
	}
	fmt.Fprintln(w)
	if task.Body != "" {
		fmt.Fprintln(w, task.Body)
	}
	return nil
}

func (f *PlainFormatter) formatTaskSummary(w io.Writer, task *domain.Task) error {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", task.ID, task.State, task.Priority, task.Title)
	return nil
}

// FormatTaskList outputs one summary line per task, without bodies.
func (f *PlainFormatter) FormatTaskList(w io.Writer, tasks []*domain.Task) error {
	for _, task := range tasks {
		if err := f.formatTaskSummary(w, task); err != nil {
			return err
		}
	}
	return nil
}

// FormatComments outputs one line per comment.
func (f *PlainFormatter) FormatComments(w io.Writer, comments []domain.Comment) error {
	for _, c := range comments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Author, c.Body)
	}
	return nil
}

// FormatCreated outputs the created task's ID.
func (f *PlainFormatter) FormatCreated(w io.Writer, task *domain.Task) error {
	fmt.Fprintln(w, task.ID)
	return nil
}

// FormatMoved outputs the moved task's ID, old state and new state,
// tab-separated.
func (f *PlainFormatter) FormatMoved(w io.Writer, task *domain.Task, oldState, newState string) error {
	fmt.Fprintf(w, "%s\t%s\t%s\n", task.ID, oldState, newState)
	return nil
}

// FormatUpdated outputs the updated task's ID.
func (f *PlainFormatter) FormatUpdated(w io.Writer, task *domain.Task) error {
	fmt.Fprintln(w, task.ID)
	return nil
}

// FormatDeleted outputs the deleted task's ID.
func (f *PlainFormatter) FormatDeleted(w io.Writer, id string) error {
	fmt.Fprintln(w, id)
	return nil
}

// FormatPushResult outputs one created/updated issue id per line.
func (f *PlainFormatter) FormatPushResult(w io.Writer, result *sync.PushResult) error {
	for _, c := range result.Created {
		fmt.Fprintln(w, c)
	}
	return nil
}

// FormatSyncResult outputs the pulled/skipped/conflict counts.
func (f *PlainFormatter) FormatSyncResult(w io.Writer, result *sync.SyncResult) error {
	fmt.Fprintf(w, "%d\t%d\t%d\n", result.Pulled, result.Skipped, result.Conflicts)
	return nil
}

// FormatChangeSet outputs one line per affected id, prefixed by its bucket.
func (f *PlainFormatter) FormatChangeSet(w io.Writer, changes *sync.ChangeSet) error {
	for _, id := range changes.ToPull {
		fmt.Fprintf(w, "pull\t%s\n", id)
	}
	for _, id := range changes.ToPush {
		fmt.Fprintf(w, "push\t%s\n", id)
	}
	for _, c := range changes.Conflicts {
		fmt.Fprintf(w, "conflict\t%s\n", c.TaskID)
	}
	return nil
}

// FormatError outputs an error message.
func (f *PlainFormatter) FormatError(w io.Writer, message string) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}

// FormatConfig outputs a minimal tab-separated summary of the configuration.
func (f *PlainFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "%s\t%s\t%s\n", cfg.Provider, cfg.TaskRoot, strings.Join(cfg.Board.ColumnIDs(), ","))
	return nil
}
