package filter

import "testing"

func TestParseWildcard(t *testing.T) {
	for _, expr := range []string{"", "*"} {
		p, err := Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", expr, err)
		}
		if !p.Wildcard {
			t.Fatalf("Parse(%q).Wildcard = false", expr)
		}
	}
}

func TestParseTokens(t *testing.T) {
	p, err := Parse(`assignee:@me label:bug label:"needs triage" repo:acme/widgets is:closed priority:high,critical`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Assignee != "@me" {
		t.Fatalf("Assignee = %q", p.Assignee)
	}
	if len(p.Labels) != 2 || p.Labels[0] != "bug" || p.Labels[1] != "needs triage" {
		t.Fatalf("Labels = %v", p.Labels)
	}
	if p.Repo != "acme/widgets" {
		t.Fatalf("Repo = %q", p.Repo)
	}
	if p.State != "closed" {
		t.Fatalf("State = %q", p.State)
	}
	if len(p.Priorities) != 2 || p.Priorities[0] != "high" || p.Priorities[1] != "critical" {
		t.Fatalf("Priorities = %v", p.Priorities)
	}
}

func TestParseUnknownKeyIsError(t *testing.T) {
	_, err := Parse("bogus:value")
	if err == nil {
		t.Fatalf("expected error for unknown filter key")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestMatchesAssigneeAtMe(t *testing.T) {
	p, _ := Parse("assignee:@me")
	item := Item{Assignees: []string{"octocat"}}
	if p.Matches(item, "octocat") == false {
		t.Fatalf("expected match for current user")
	}
	if p.Matches(item, "someone-else") {
		t.Fatalf("expected no match for a different user")
	}
}

func TestMatchesDefaultsToOpenState(t *testing.T) {
	p, _ := Parse("label:bug")
	open := Item{Labels: []string{"bug"}, Closed: false}
	closed := Item{Labels: []string{"bug"}, Closed: true}
	if !p.Matches(open, "") {
		t.Fatalf("expected match on open issue")
	}
	if p.Matches(closed, "") {
		t.Fatalf("expected no match on closed issue without is:closed")
	}
}

func TestMatchesAnyORsAcrossFilters(t *testing.T) {
	filters, err := ParseAll([]string{"label:bug", "label:feature"})
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if !MatchesAny(filters, Item{Labels: []string{"feature"}}, "") {
		t.Fatalf("expected a match via the second filter")
	}
	if MatchesAny(filters, Item{Labels: []string{"chore"}}, "") {
		t.Fatalf("expected no match")
	}
}

func TestMatchesAnyEmptyFiltersMatchesNothing(t *testing.T) {
	if MatchesAny(nil, Item{Labels: []string{"bug"}}, "") {
		t.Fatalf("an empty filter list must match nothing")
	}
}
