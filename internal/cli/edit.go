package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	editTitle     string
	editPriority  string
	editAddTags   []string
	editRemoveTag []string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Modify a task's title, priority, or tags",
	Long: `Edit an existing task's fields. Only the fields named by a flag
are changed.

Examples:
  sltasks edit implement-auth-flow.md --title="New title"
  sltasks edit implement-auth-flow.md --priority=high
  sltasks edit implement-auth-flow.md --add-tag=blocked --remove-tag=ready`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(args[0])
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority")
	editCmd.Flags().StringSliceVar(&editAddTags, "add-tag", nil, "Tags to add (can be specified multiple times)")
	editCmd.Flags().StringSliceVar(&editRemoveTag, "remove-tag", nil, "Tags to remove (can be specified multiple times)")
}

func runEdit(id string) error {
	if editTitle == "" && editPriority == "" && len(editAddTags) == 0 && len(editRemoveTag) == 0 {
		return fmt.Errorf("no changes specified")
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	if editPriority != "" && !a.cfg.Board.IsValidPriority(editPriority) {
		return fmt.Errorf("invalid priority %q (valid: %s)", editPriority, strings.Join(a.cfg.Board.PriorityIDs(), ", "))
	}

	t, err := a.store.GetByID(id)
	if err != nil {
		return err
	}

	if editTitle != "" {
		t.Title = editTitle
	}
	if editPriority != "" {
		t.Priority = a.cfg.Board.ResolvePriority(editPriority)
	}
	t.Tags = applyTagEdits(t.Tags, editAddTags, editRemoveTag)

	updated, err := a.tasks.UpdateTask(t)
	if err != nil {
		return err
	}
	return formatter().FormatUpdated(os.Stdout, updated)
}

func applyTagEdits(tags, add, remove []string) []string {
	removeSet := toSet(remove)
	var out []string
	seen := map[string]bool{}
	for _, t := range tags {
		if removeSet[t] || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range add {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
