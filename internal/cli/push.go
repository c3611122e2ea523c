package cli

import (
	"fmt"
	"os"

	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/sync"
	"github.com/spf13/cobra"
)

var (
	pushDryRun bool
	pushDelete bool
	pushArchive bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local-only tasks as new issues and push edits to synced ones",
	Long: `Push has two parts, run together:

  1. Every local-only task (never synced) is created as a new GitHub issue.
  2. Every already-synced task marked push_changes: true whose local copy
     changed since its last sync has its issue updated.

By default, pushed local-only files are left unchanged on disk (no github:
block is written to them). --delete removes them; --archive marks them
archived instead.
--dry-run reports what would happen without calling the GitHub API or
touching any files.

Examples:
  sltasks push
  sltasks push --dry-run
  sltasks push --archive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPush()
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Report what would be pushed without changing anything")
	pushCmd.Flags().BoolVar(&pushDelete, "delete", false, "Delete local files once their issue is created")
	pushCmd.Flags().BoolVar(&pushArchive, "archive", false, "Archive local files once their issue is created")
}

func postPushAction() sync.PostPushAction {
	switch {
	case pushDelete:
		return sync.ActionDelete
	case pushArchive:
		return sync.ActionArchive
	default:
		return sync.ActionKeep
	}
}

func runPush() error {
	if pushDelete && pushArchive {
		return fmt.Errorf("only one of --delete or --archive may be specified")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	engine, err := a.syncEngine()
	if err != nil {
		return err
	}

	newTasks, err := engine.FindLocalOnlyTasks()
	if err != nil {
		return err
	}
	created := engine.PushNewIssues(newTasks, pushDryRun)
	if !pushDryRun {
		action := postPushAction()
		for _, item := range created.Items {
			if err := engine.HandlePushedFile(item.Task, item.IssueID, action); err != nil {
				created.Errors = append(created.Errors, fmt.Sprintf("%s: %v", item.Task.ID, err))
			}
		}
	}
	if err := formatter().FormatPushResult(os.Stdout, created); err != nil {
		return err
	}

	all, err := a.store.GetAll()
	if err != nil {
		return err
	}
	updated := engine.PushUpdates(remoteTasks(all), pushDryRun)
	return formatter().FormatPushResult(os.Stdout, updated)
}

func remoteTasks(tasks []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if r, ok := t.Remote(); ok && r.PushChanges && t.Updated.After(r.LastSynced) {
			out = append(out, t)
		}
	}
	return out
}
