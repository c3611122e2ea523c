// Package domain defines the core Task entity and its tagged provider data,
// shared by every store, the sync engine, and the board/task services.
package domain

import (
	"strconv"
	"time"
)

// Reserved column id. A task in this state has no configured column.
const StateArchived = "archived"

// DefaultPriority is used when a task's priority cannot be resolved.
const DefaultPriority = "medium"

// ProviderKind discriminates the variant held by a Task's Provider field.
type ProviderKind int

const (
	ProviderFile ProviderKind = iota
	ProviderRemote
)

func (k ProviderKind) String() string {
	switch k {
	case ProviderFile:
		return "file"
	case ProviderRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ProviderData is a tagged union: a Task carries exactly one variant,
// discriminated by Kind(). Consumers branch on the tag; there is no
// virtual dispatch and no inheritance.
type ProviderData interface {
	Kind() ProviderKind
}

// FileData is the provider variant for a task that lives only on disk.
type FileData struct{}

func (FileData) Kind() ProviderKind { return ProviderFile }

// PrioritySource records where a Remote task's priority was projected from.
type PrioritySource string

const (
	PriorityFromLabel PrioritySource = "labels"
	PriorityFromField PrioritySource = "field"
)

// RemoteData is the provider variant for a task backed by a remote item
// (an Issue in a GitHub-Projects-v2-shaped backend).
type RemoteData struct {
	ProjectItemID string
	IssueNodeID   string
	Repository    string // "owner/repo"
	IssueNumber   int

	// TypeLabel and PriorityLabel are the exact label strings that produced
	// Task.Type / Task.Priority, retained so the label diff (§4.5.1) can
	// remove exactly what it added.
	TypeLabel     string
	PriorityLabel string

	// SyncedTags is Task.Tags as of the last successful push or pull,
	// retained for the same reason as TypeLabel/PriorityLabel: computing a
	// label diff needs the old tag set, not just the new one.
	SyncedTags []string

	LastSynced     time.Time
	PrioritySource PrioritySource

	// PushChanges and CloseOnGithub are the sibling frontmatter keys next
	// to the github: block (§3): PushChanges opts a synced file into
	// push_updates; CloseOnGithub is only read from and written back to the
	// file, and no delete path consults it.
	PushChanges   bool
	CloseOnGithub bool
}

func (RemoteData) Kind() ProviderKind { return ProviderRemote }

// ID returns the canonical remote identity "owner/repo#number".
func (r RemoteData) ID() string {
	return r.Repository + "#" + strconv.Itoa(r.IssueNumber)
}

// Comment is a single dated, attributed remark in a task's body, parsed
// from a "### YYYY-MM-DD @author" heading by the frontmatter codec.
type Comment struct {
	ID      string
	Author  string
	Body    string
	Created time.Time
}

// Task is the single domain entity shared by both stores.
type Task struct {
	// ID is the filename for file-backed tasks, or "owner/repo#number" for
	// remote-backed ones. Stable across the task's lifetime.
	ID string

	Title string
	Body  string

	// State is a canonical column id, or the reserved StateArchived.
	State string

	// Priority is a canonical priority id, defaulting to DefaultPriority.
	Priority string

	// Type is an optional canonical type id.
	Type string

	// Tags is an ordered set: duplicates forbidden, order preserved.
	Tags []string

	// Assignees is the optional sibling frontmatter key written on pull
	// (§4.7.2); it is descriptive only and never drives sync decisions.
	Assignees []string

	Created time.Time
	Updated time.Time

	Comments []Comment

	Provider ProviderData
}

// IsRemote reports whether the task carries Remote provider data.
func (t *Task) IsRemote() bool {
	_, ok := t.Provider.(RemoteData)
	return ok
}

// Remote returns the task's RemoteData and true, or a zero value and false
// if the task is file-only.
func (t *Task) Remote() (RemoteData, bool) {
	r, ok := t.Provider.(RemoteData)
	return r, ok
}

// Clone returns a deep-enough copy so callers can compare pre/post state
// without aliasing slices or the provider variant. This is the mechanism
// stores use to avoid the aliased-object mutation bug: every Save returns
// a fresh Task rather than mutating the caller's pointer in place.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Assignees != nil {
		c.Assignees = append([]string(nil), t.Assignees...)
	}
	if t.Comments != nil {
		c.Comments = append([]Comment(nil), t.Comments...)
	}
	return &c
}
