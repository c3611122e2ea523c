package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	reorderUp   bool
	reorderDown bool
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <id>",
	Short: "Swap a task with its adjacent neighbor",
	Long: `Swap a task with the neighbor immediately above (--up) or below
(--down) it in its current column's order. A no-op at either boundary of
the column.

Examples:
  sltasks reorder implement-auth-flow.md --up
  sltasks reorder implement-auth-flow.md --down`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReorder(args[0])
	},
}

func init() {
	rootCmd.AddCommand(reorderCmd)
	reorderCmd.Flags().BoolVar(&reorderUp, "up", false, "Swap with the previous task")
	reorderCmd.Flags().BoolVar(&reorderDown, "down", false, "Swap with the next task")
}

func runReorder(id string) error {
	if reorderUp == reorderDown {
		return fmt.Errorf("exactly one of --up or --down is required")
	}
	delta := 1
	if reorderUp {
		delta = -1
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	moved, err := a.board.ReorderTask(id, delta)
	if err != nil {
		return err
	}

	t, err := a.store.GetByID(id)
	if err != nil {
		return err
	}
	if !moved {
		fmt.Fprintln(os.Stderr, "already at that boundary, nothing to reorder")
	}
	return formatter().FormatTask(os.Stdout, t)
}
