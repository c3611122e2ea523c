// Package filter implements the filter DSL (C7) used to scope which remote
// items a sync pulls: "key:value" tokens, ANDed within one filter string and
// ORed across the configured list. Grounded entirely in original_source's
// sltasks/sync/filter_parser.py — the teacher repo has no equivalent, since
// its single-workspace model never needed to scope a sync.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/boardsync/core/internal/config"
)

// tokenPattern matches "key:value" or `key:"quoted value"`.
var tokenPattern = regexp.MustCompile(`(\w+):(?:"([^"]+)"|(\S+))`)

// ParseError reports a malformed filter expression — an unknown key is an
// error, not silently ignored, so typos don't silently match everything.
type ParseError struct {
	Expression string
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filter %q: %s", e.Expression, e.Reason)
}

// Parsed is one parsed filter clause. Zero value means "no constraint on
// this field."
type Parsed struct {
	Assignee   string
	Labels     []string
	Milestone  string
	State      string // "open" (default), "closed", or "all"
	Repo       string
	Wildcard   bool
	Priorities []string
}

var knownKeys = map[string]bool{
	"assignee": true, "label": true, "milestone": true,
	"is": true, "repo": true, "priority": true,
}

// Parse compiles one filter expression. "*" and "" both match everything.
func Parse(expression string) (Parsed, error) {
	expr := strings.TrimSpace(expression)
	if expr == "" || expr == "*" {
		return Parsed{Wildcard: true, State: "open"}, nil
	}

	p := Parsed{State: "open"}
	tokens, rest := tokenize(expr)
	if strings.TrimSpace(rest) != "" {
		return Parsed{}, &ParseError{Expression: expression, Reason: fmt.Sprintf("unrecognized text %q", strings.TrimSpace(rest))}
	}

	for _, tok := range tokens {
		if !knownKeys[tok.key] {
			return Parsed{}, &ParseError{Expression: expression, Reason: fmt.Sprintf("unknown filter key %q", tok.key)}
		}
		switch tok.key {
		case "assignee":
			p.Assignee = tok.value
		case "label":
			p.Labels = append(p.Labels, tok.value)
		case "milestone":
			p.Milestone = tok.value
		case "is":
			p.State = tok.value
		case "repo":
			p.Repo = tok.value
		case "priority":
			for _, v := range strings.Split(tok.value, ",") {
				v = strings.TrimSpace(v)
				if v != "" {
					p.Priorities = append(p.Priorities, v)
				}
			}
		}
	}
	return p, nil
}

type token struct{ key, value string }

// tokenize extracts every "key:value" token and returns whatever text was
// not consumed by a match, so Parse can reject garbage input instead of
// silently dropping it.
func tokenize(expr string) ([]token, string) {
	matches := tokenPattern.FindAllStringSubmatchIndex(expr, -1)
	var tokens []token
	var rest strings.Builder
	last := 0
	for _, m := range matches {
		rest.WriteString(expr[last:m[0]])
		last = m[1]

		key := expr[m[2]:m[3]]
		var value string
		if m[4] != -1 {
			value = expr[m[4]:m[5]]
		} else {
			value = expr[m[6]:m[7]]
		}
		tokens = append(tokens, token{key: key, value: value})
	}
	rest.WriteString(expr[last:])
	return tokens, rest.String()
}

// Item is the minimal view of a remote issue/PR/draft a filter matches
// against; the sync engine adapts its fetched items to this shape.
type Item struct {
	Assignees  []string
	Labels     []string
	Milestone  string
	Closed     bool
	Repository string
	Priority   string // resolved label-or-field priority, "" if none
}

// Matches reports whether item satisfies every constraint in p (AND
// semantics within one filter), resolving "@me" against currentUser.
func (p Parsed) Matches(item Item, currentUser string) bool {
	if p.Wildcard {
		return true
	}
	if p.Assignee != "" {
		want := p.Assignee
		if want == "@me" {
			want = currentUser
		}
		if !containsFold(item.Assignees, want) {
			return false
		}
	}
	for _, l := range p.Labels {
		if !containsFold(item.Labels, l) {
			return false
		}
	}
	if p.Milestone != "" && !strings.EqualFold(item.Milestone, p.Milestone) {
		return false
	}
	switch p.State {
	case "", "open":
		if item.Closed {
			return false
		}
	case "closed":
		if !item.Closed {
			return false
		}
	case "all":
		// no constraint
	default:
		if item.Closed {
			return false
		}
	}
	if p.Repo != "" && !strings.EqualFold(item.Repository, p.Repo) {
		return false
	}
	if len(p.Priorities) > 0 {
		matched := false
		for _, want := range p.Priorities {
			if strings.EqualFold(want, item.Priority) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// MatchesAny ORs a set of filter expressions against item: an empty list
// matches nothing (§4.6 — "no filters configured" means "pull nothing",
// not "pull everything"; use a single "*" to mean everything).
func MatchesAny(filters []Parsed, item Item, currentUser string) bool {
	for _, f := range filters {
		if f.Matches(item, currentUser) {
			return true
		}
	}
	return false
}

// ParseAll parses every configured filter expression, stopping at the first
// error (unknown keys are a config problem, surfaced as errs.ConfigInvalid
// by the caller).
func ParseAll(expressions []string) ([]Parsed, error) {
	out := make([]Parsed, 0, len(expressions))
	for _, e := range expressions {
		p, err := Parse(e)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ItemPriority resolves an item's priority the way §4.5.3 does for reading:
// the configured priority field value if present, else a "priority:X"
// label, else a direct board-priority-name label match, defaulting to the
// empty string (no opinion).
func ItemPriority(fieldValue string, labels []string, board config.BoardConfig) string {
	if fieldValue != "" {
		return board.ResolvePriority(fieldValue)
	}
	for _, l := range labels {
		if strings.HasPrefix(l, "priority:") {
			return board.ResolvePriority(strings.TrimPrefix(l, "priority:"))
		}
	}
	for _, l := range labels {
		if board.IsValidPriority(l) {
			return board.ResolvePriority(l)
		}
	}
	return ""
}
