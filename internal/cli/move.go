package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <left|right>",
	Short: "Step a task one column left or right",
	Long: `Move a task to the adjacent column in the configured board order.

At the first or last column (or for an unrecognized state) this is a
no-op: the task is returned unchanged.

Examples:
  sltasks move implement-auth-flow.md right
  sltasks move implement-auth-flow.md left -f json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(id, direction string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	before, err := a.store.GetByID(id)
	if err != nil {
		return err
	}
	oldState := before.State

	switch direction {
	case "left":
		t, err := a.board.MoveTaskLeft(id)
		if err != nil {
			return err
		}
		return formatter().FormatMoved(os.Stdout, t, oldState, t.State)
	case "right":
		t, err := a.board.MoveTaskRight(id)
		if err != nil {
			return err
		}
		return formatter().FormatMoved(os.Stdout, t, oldState, t.State)
	default:
		return fmt.Errorf("direction must be %q or %q, got %q", "left", "right", direction)
	}
}
