package output

import (
	"fmt"
	"io"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/sync"
)

// IDOnlyFormatter outputs only task IDs, one per line — built for command
// substitution in shell pipelines.
type IDOnlyFormatter struct{}

func (f *IDOnlyFormatter) FormatTask(w io.Writer, task *domain.Task) error {
	fmt.Fprintln(w, task.ID)
	return nil
}

func (f *IDOnlyFormatter) FormatTaskList(w io.Writer, tasks []*domain.Task) error {
	for _, task := range tasks {
		fmt.Fprintln(w, task.ID)
	}
	return nil
}

func (f *IDOnlyFormatter) FormatComments(w io.Writer, comments []domain.Comment) error {
	for _, c := range comments {
		fmt.Fprintln(w, c.ID)
	}
	return nil
}

func (f *IDOnlyFormatter) FormatCreated(w io.Writer, task *domain.Task) error {
	fmt.Fprintln(w, task.ID)
	return nil
}

func (f *IDOnlyFormatter) FormatMoved(w io.Writer, task *domain.Task, _, _ string) error {
	fmt.Fprintln(w, task.ID)
	return nil
}

func (f *IDOnlyFormatter) FormatUpdated(w io.Writer, task *domain.Task) error {
	fmt.Fprintln(w, task.ID)
	return nil
}

func (f *IDOnlyFormatter) FormatDeleted(w io.Writer, id string) error {
	fmt.Fprintln(w, id)
	return nil
}

func (f *IDOnlyFormatter) FormatPushResult(w io.Writer, result *sync.PushResult) error {
	for _, item := range result.Items {
		fmt.Fprintln(w, item.IssueID)
	}
	return nil
}

func (f *IDOnlyFormatter) FormatSyncResult(w io.Writer, result *sync.SyncResult) error {
	return nil
}

func (f *IDOnlyFormatter) FormatChangeSet(w io.Writer, changes *sync.ChangeSet) error {
	for _, id := range changes.ToPull {
		fmt.Fprintln(w, id)
	}
	for _, id := range changes.ToPush {
		fmt.Fprintln(w, id)
	}
	return nil
}

// FormatError outputs an error message (errors are always shown, even in
// id-only mode).
func (f *IDOnlyFormatter) FormatError(w io.Writer, message string) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}

func (f *IDOnlyFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, cfg.TaskRoot)
	return nil
}
