package sync

import (
	"time"

	"github.com/boardsync/core/internal/domain"
)

// PushResult is the outcome of PushNewIssues or PushUpdates: created/updated
// issue ids and any per-task errors, captured rather than raised (§7).
// Ported from original_source/.../models/sync.py's PushResult dataclass.
type PushResult struct {
	Created []string
	Errors  []string
	DryRun  bool

	// Items correlates each successfully created/updated issue with the
	// task that produced it, in the order pushes succeeded. Not named in
	// spec §4.7 directly, but required by callers of HandlePushedFile,
	// which needs (task, issueID) pairs rather than the index-aligned
	// "created[i] <-> tasks[i]" convention of the original CLI (which
	// misaligns once any task errors).
	Items []PushedItem
}

// PushedItem pairs a pushed task with the issue id the push produced.
type PushedItem struct {
	Task    *domain.Task
	IssueID string
}

func (r *PushResult) SuccessCount() int { return len(r.Created) }
func (r *PushResult) ErrorCount() int   { return len(r.Errors) }
func (r *PushResult) HasErrors() bool   { return len(r.Errors) > 0 }

// SyncResult is the outcome of SyncFromGitHub.
type SyncResult struct {
	Pulled    int
	Skipped   int
	Conflicts int
	Errors    []string
	DryRun    bool
}

func (r *SyncResult) HasErrors() bool { return len(r.Errors) > 0 }

// Conflict describes one item where both sides changed since the last sync
// (§4.7.1).
type Conflict struct {
	TaskID       string
	IssueNumber  int
	Repository   string
	LocalUpdated time.Time
	RemoteUpdated time.Time
	LastSynced   time.Time
}

// ChangeSet is the three disjoint lists detect_changes produces (§4.7,
// testable property #6: no id appears in two lists).
type ChangeSet struct {
	ToPull    []string
	ToPush    []string
	Conflicts []Conflict
}

// PostPushAction is the disposition handle_pushed_file applies to a local
// file once its issue has been created (§4.7).
type PostPushAction string

const (
	ActionDelete PostPushAction = "delete"
	ActionArchive PostPushAction = "archive"
	ActionRename  PostPushAction = "rename"
	ActionKeep    PostPushAction = "keep"
)
