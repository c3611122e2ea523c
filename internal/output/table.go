package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/sync"
)

// TableFormatter outputs data in a human-readable table format.
type TableFormatter struct{}

// FormatTask outputs a single task in detailed format.
func (f *TableFormatter) FormatTask(w io.Writer, task *domain.Task) error {
	fmt.Fprintf(w, "%s: %s\n", task.ID, task.Title)
	fmt.Fprintln(w, strings.Repeat("━", 40))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "State:     %s\n", task.State)
	fmt.Fprintf(w, "Priority:  %s\n", task.Priority)
	if task.Type != "" {
		fmt.Fprintf(w, "Type:      %s\n", task.Type)
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(w, "Tags:      %s\n", strings.Join(task.Tags, ", "))
	}
	if len(task.Assignees) > 0 {
		fmt.Fprintf(w, "Assignees: %s\n", strings.Join(task.Assignees, ", "))
	}
	fmt.Fprintf(w, "Created:   %s\n", task.Created.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Updated:   %s\n", task.Updated.Format("2006-01-02 15:04"))
	if r, ok := task.Remote(); ok {
		fmt.Fprintf(w, "GitHub:    %s\n", r.ID())
	}

	if task.Body != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Description")
		fmt.Fprintln(w)
		fmt.Fprintln(w, task.Body)
	}

	if len(task.Comments) > 0 {
		fmt.Fprintln(w)
		if err := f.FormatComments(w, task.Comments); err != nil {
			return err
		}
	}

	return nil
}

// FormatTaskList outputs a list of tasks in table format.
func (f *TableFormatter) FormatTaskList(w io.Writer, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tPRIORITY\tTITLE")

	for _, task := range tasks {
		title := task.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", task.ID, task.State, task.Priority, title)
	}

	return tw.Flush()
}

// FormatComments outputs a task's comments in table format.
func (f *TableFormatter) FormatComments(w io.Writer, comments []domain.Comment) error {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments.")
		return nil
	}

	fmt.Fprintln(w, "## Comments")
	fmt.Fprintln(w)
	for i, c := range comments {
		fmt.Fprintf(w, "### %s @%s\n", c.Created.Format("2006-01-02"), c.Author)
		fmt.Fprintln(w, c.Body)
		if i < len(comments)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

// FormatCreated outputs the result of creating a task.
func (f *TableFormatter) FormatCreated(w io.Writer, task *domain.Task) error {
	fmt.Fprintf(w, "Created %s: %s\n", task.ID, task.Title)
	return nil
}

// FormatMoved outputs the result of moving a task to a new column.
func (f *TableFormatter) FormatMoved(w io.Writer, task *domain.Task, oldState, newState string) error {
	if oldState == newState {
		fmt.Fprintf(w, "%s is already in %s\n", task.ID, newState)
		return nil
	}
	fmt.Fprintf(w, "Moved %s: %s → %s\n", task.ID, oldState, newState)
	return nil
}

// FormatUpdated outputs the result of updating a task.
func (f *TableFormatter) FormatUpdated(w io.Writer, task *domain.Task) error {
	fmt.Fprintf(w, "Updated %s: %s\n", task.ID, task.Title)
	return nil
}

// FormatDeleted outputs the result of deleting a task.
func (f *TableFormatter) FormatDeleted(w io.Writer, id string) error {
	fmt.Fprintf(w, "Deleted %s\n", id)
	return nil
}

// FormatPushResult outputs the result of PushNewIssues or PushUpdates.
func (f *TableFormatter) FormatPushResult(w io.Writer, result *sync.PushResult) error {
	if result.DryRun {
		fmt.Fprintln(w, "Dry run — nothing was pushed.")
	}
	for _, c := range result.Created {
		fmt.Fprintf(w, "  %s\n", c)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	fmt.Fprintf(w, "%d pushed, %d errors\n", result.SuccessCount(), result.ErrorCount())
	return nil
}

// FormatSyncResult outputs the result of SyncFromGitHub.
func (f *TableFormatter) FormatSyncResult(w io.Writer, result *sync.SyncResult) error {
	if result.DryRun {
		fmt.Fprintln(w, "Dry run — nothing was written.")
	}
	fmt.Fprintf(w, "Sync complete: %d pulled, %d skipped, %d conflicts\n", result.Pulled, result.Skipped, result.Conflicts)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	return nil
}

// FormatChangeSet outputs the result of DetectChanges.
func (f *TableFormatter) FormatChangeSet(w io.Writer, changes *sync.ChangeSet) error {
	fmt.Fprintf(w, "To pull (%d):\n", len(changes.ToPull))
	for _, id := range changes.ToPull {
		fmt.Fprintf(w, "  %s\n", id)
	}
	fmt.Fprintf(w, "To push (%d):\n", len(changes.ToPush))
	for _, id := range changes.ToPush {
		fmt.Fprintf(w, "  %s\n", id)
	}
	fmt.Fprintf(w, "Conflicts (%d):\n", len(changes.Conflicts))
	for _, c := range changes.Conflicts {
		fmt.Fprintf(w, "  %s (%s#%d)\n", c.TaskID, c.Repository, c.IssueNumber)
	}
	return nil
}

// FormatError outputs an error message.
func (f *TableFormatter) FormatError(w io.Writer, message string) error {
	fmt.Fprintf(w, "error: %s\n", message)
	return nil
}

// FormatConfig outputs the loaded configuration.
func (f *TableFormatter) FormatConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "  Provider:  %s\n", cfg.Provider)
	fmt.Fprintf(w, "  Task root: %s\n", cfg.TaskRoot)
	fmt.Fprintf(w, "  Columns:   %s\n", strings.Join(cfg.Board.ColumnIDs(), ", "))
	if cfg.Remote != nil {
		fmt.Fprintf(w, "  Default repo: %s\n", cfg.Remote.DefaultRepo)
	}
	return nil
}
