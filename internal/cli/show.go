package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showComments bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Display a task's full details",
	Long: `Display a task's full details, including its description.

Use --comments to also print its parsed comment thread.

Examples:
  sltasks show implement-auth-flow.md
  sltasks show implement-auth-flow.md --comments`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showComments, "comments", false, "Include the parsed comment thread")
}

func runShow(id string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	t, err := a.store.GetByID(id)
	if err != nil {
		return err
	}

	f := formatter()
	if err := f.FormatTask(os.Stdout, t); err != nil {
		return err
	}
	if showComments && len(t.Comments) > 0 {
		fmt.Fprintln(os.Stdout)
		return f.FormatComments(os.Stdout, t.Comments)
	}
	return nil
}
