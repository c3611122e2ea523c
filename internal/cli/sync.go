package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull matching GitHub Project items into local task files",
	Long: `Pull every item matched by github.sync.filters (or every open item,
if none are configured) into a local task file.

A never-before-synced item is always pulled. An already-synced item whose
remote side changed is pulled only if the local side did not also change
since the last sync; when both changed, the item is reported as a
conflict and skipped unless --force overrides it (remote wins on force).

Examples:
  sltasks sync
  sltasks sync --dry-run
  sltasks sync --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync()
	},
}

var syncDryRun bool

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Pull remote changes even over local edits")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report what would be pulled without writing files")
}

func runSync() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	engine, err := a.syncEngine()
	if err != nil {
		return err
	}
	result := engine.SyncFromGitHub(syncDryRun, syncForce)
	return formatter().FormatSyncResult(os.Stdout, result)
}

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show the three-way diff sync would act on",
	Long: `Show what a sync/push pass would do without doing it: tasks to pull
from GitHub, tasks to push to GitHub, and tasks in conflict.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChanges()
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
}

func runChanges() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	engine, err := a.syncEngine()
	if err != nil {
		return err
	}
	return formatter().FormatChangeSet(os.Stdout, engine.DetectChanges())
}
