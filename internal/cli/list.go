package cli

import (
	"os"

	"github.com/boardsync/core/internal/domain"
	"github.com/spf13/cobra"
)

var (
	listStatus     []string
	listPriority   []string
	listTags       []string
	listType       string
	listIncludeArc bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks on the board",
	Long: `List tasks, optionally filtered by status, priority, tag, or type.

Archived tasks are excluded unless --include-archived is given.

Examples:
  sltasks list
  sltasks list --status=todo,in_progress
  sltasks list --priority=high --tag=bug
  sltasks list -f json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringSliceVarP(&listStatus, "status", "s", nil, "Filter by column (comma-separated)")
	listCmd.Flags().StringSliceVarP(&listPriority, "priority", "p", nil, "Filter by priority (comma-separated)")
	listCmd.Flags().StringSliceVarP(&listTags, "tag", "t", nil, "Task must have all given tags")
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by task type")
	listCmd.Flags().BoolVar(&listIncludeArc, "include-archived", false, "Include archived tasks")
}

func runList() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	all, err := a.store.GetAll()
	if err != nil {
		return err
	}

	statusSet := toSet(listStatus)
	prioritySet := toSet(listPriority)

	var out []*domain.Task
	for _, t := range all {
		if !listIncludeArc && t.State == domain.StateArchived {
			continue
		}
		if len(statusSet) > 0 && !statusSet[t.State] {
			continue
		}
		if len(prioritySet) > 0 && !prioritySet[t.Priority] {
			continue
		}
		if listType != "" && t.Type != listType {
			continue
		}
		if !hasAllTags(t.Tags, listTags) {
			continue
		}
		out = append(out, t)
	}

	return formatter().FormatTaskList(os.Stdout, out)
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func hasAllTags(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := toSet(have)
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
