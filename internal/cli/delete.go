package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Long: `Remove a task's file from disk and its entry from the board order.

This cannot be undone.

Examples:
  sltasks delete implement-auth-flow.md
  sltasks delete implement-auth-flow.md -f json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(id string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.tasks.DeleteTask(id); err != nil {
		return err
	}
	return formatter().FormatDeleted(os.Stdout, id)
}
