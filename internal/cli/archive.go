package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Move a task to the archived state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		before, err := a.store.GetByID(args[0])
		if err != nil {
			return err
		}
		t, err := a.board.ArchiveTask(args[0])
		if err != nil {
			return err
		}
		return formatter().FormatMoved(os.Stdout, t, before.State, t.State)
	},
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <id>",
	Short: "Move an archived task back into the board's first column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		before, err := a.store.GetByID(args[0])
		if err != nil {
			return err
		}
		t, err := a.board.UnarchiveTask(args[0])
		if err != nil {
			return err
		}
		return formatter().FormatMoved(os.Stdout, t, before.State, t.State)
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(unarchiveCmd)
}
