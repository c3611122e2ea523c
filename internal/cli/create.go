package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	createPriority string
	createTags     []string
	createStatus   string
	createType     string
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Long: `Create a new local-only task file.

If --type names a configured type with a template, the template's
frontmatter and body supply defaults for any field not set by a flag.

Examples:
  sltasks create "Implement rate limiting"
  sltasks create "Fix login bug" --priority=high --tag=bug
  sltasks create "Research caching" --type=feature --status=in_progress`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(args[0])
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createPriority, "priority", "p", "", "Priority (default: medium)")
	createCmd.Flags().StringSliceVarP(&createTags, "tag", "t", nil, "Add a tag (can be specified multiple times)")
	createCmd.Flags().StringVarP(&createStatus, "status", "s", "", "Initial column (default: the board's first column)")
	createCmd.Flags().StringVar(&createType, "type", "", "Task type, applies that type's template")
}

func runCreate(title string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	status := createStatus
	if status == "" {
		cols := a.cfg.Board.ColumnIDs()
		if len(cols) > 0 {
			status = cols[0]
		}
	} else {
		status = a.cfg.Board.ResolveStatus(status)
	}
	if createPriority != "" && !a.cfg.Board.IsValidPriority(createPriority) {
		return fmt.Errorf("invalid priority %q (valid: %s)", createPriority, strings.Join(a.cfg.Board.PriorityIDs(), ", "))
	}
	if createType != "" && !a.cfg.Board.IsValidType(createType) {
		return fmt.Errorf("invalid type %q (valid: %s)", createType, strings.Join(a.cfg.Board.TypeIDs(), ", "))
	}

	t, err := a.tasks.CreateTask(title, status, createPriority, createTags, createType)
	if err != nil {
		return err
	}
	return formatter().FormatCreated(os.Stdout, t)
}
