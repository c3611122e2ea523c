package remote

import (
	"testing"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
)

func TestStatusToColumnIsDeterministic(t *testing.T) {
	cases := map[string]string{
		"In Progress": "in_progress",
		"To Do":       "to_do",
		"✅ Done":      "done",
		"":            "unknown",
	}
	for name, want := range cases {
		if got := StatusToColumn(name); got != want {
			t.Errorf("StatusToColumn(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestColumnToOptionRoundTrips(t *testing.T) {
	field := Field{Options: []FieldOption{
		{ID: "opt1", Name: "To Do"},
		{ID: "opt2", Name: "In Progress"},
		{ID: "opt3", Name: "Done"},
	}}
	id, ok := ColumnToOption(field, "in_progress")
	if !ok || id != "opt2" {
		t.Fatalf("ColumnToOption(in_progress) = (%q, %v)", id, ok)
	}
	if _, ok := ColumnToOption(field, "archived"); ok {
		t.Fatalf("expected no option to map to archived")
	}
}

func TestResolvePriorityFromFieldIsPositional(t *testing.T) {
	board := config.DefaultBoardConfig() // low, medium, high, critical
	field := Field{Options: []FieldOption{
		{ID: "p0", Name: "P0"},
		{ID: "p1", Name: "P1"},
		{ID: "p2", Name: "P2"},
		{ID: "p3", Name: "P3"},
	}}
	if got := ResolvePriorityFromField(field, "P2", board); got != "high" {
		t.Fatalf("ResolvePriorityFromField(P2) = %q, want high", got)
	}
	if got := ResolvePriorityFromField(field, "nonexistent", board); got != "" {
		t.Fatalf("expected empty for an unknown option, got %q", got)
	}
}

func TestResolvePriorityFromLabelsPrefersPriorityPrefix(t *testing.T) {
	board := config.DefaultBoardConfig()
	got := ResolvePriorityFromLabels([]string{"bug", "priority:urgent"}, board)
	if got != "critical" {
		t.Fatalf("got %q, want critical (urgent is an alias for critical)", got)
	}
}

func TestResolvePriorityFromLabelsDefaultsToMedium(t *testing.T) {
	board := config.DefaultBoardConfig()
	if got := ResolvePriorityFromLabels([]string{"bug"}, board); got != domain.DefaultPriority {
		t.Fatalf("got %q, want %q", got, domain.DefaultPriority)
	}
}

func TestComputeLabelDiffTypeAndPriorityChange(t *testing.T) {
	board := config.DefaultBoardConfig()
	diff := ComputeLabelDiff(board, "bug", "priority:low", []string{"infra"},
		"feature", "high", []string{"infra"}, domain.PriorityFromLabel)

	if !containsAll(diff.Remove, "bug", "priority:low") {
		t.Fatalf("Remove = %v, want bug and priority:low", diff.Remove)
	}
	if !containsAll(diff.Add, "feature", "priority:high") {
		t.Fatalf("Add = %v, want feature and priority:high", diff.Add)
	}
	if containsAll(diff.Remove, "infra") || containsAll(diff.Add, "infra") {
		t.Fatalf("unchanged tag 'infra' should not appear in either set: %+v", diff)
	}
}

func TestComputeLabelDiffTagAddAndRemove(t *testing.T) {
	board := config.DefaultBoardConfig()
	diff := ComputeLabelDiff(board, "", "", []string{"alpha", "beta"},
		"", "", []string{"beta", "gamma"}, domain.PriorityFromLabel)

	if !containsAll(diff.Add, "gamma") || containsAll(diff.Add, "beta") {
		t.Fatalf("Add = %v, want only gamma", diff.Add)
	}
	if !containsAll(diff.Remove, "alpha") || containsAll(diff.Remove, "beta") {
		t.Fatalf("Remove = %v, want only alpha", diff.Remove)
	}
}

func containsAll(haystack []string, wants ...string) bool {
	set := map[string]bool{}
	for _, h := range haystack {
		set[h] = true
	}
	for _, w := range wants {
		if !set[w] {
			return false
		}
	}
	return true
}

func TestResolveLabelIDsSkipsUnknown(t *testing.T) {
	repo := &RepositoryInfo{Labels: map[string]string{"bug": "L_bug"}}
	ids := ResolveLabelIDs(repo, []string{"bug", "nonexistent"})
	if len(ids) != 1 || ids[0] != "L_bug" {
		t.Fatalf("ids = %v, want [L_bug]", ids)
	}
}
