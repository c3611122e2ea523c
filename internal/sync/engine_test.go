package sync

import (
	"testing"
	"time"

	"github.com/boardsync/core/internal/clock"
	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/store/remote"
)

// fakeLocal is an in-memory LocalStore double, keyed by task ID.
type fakeLocal struct {
	tasks map[string]*domain.Task
}

func newFakeLocal(tasks ...*domain.Task) *fakeLocal {
	l := &fakeLocal{tasks: map[string]*domain.Task{}}
	for _, t := range tasks {
		l.tasks[t.ID] = t
	}
	return l
}

func (l *fakeLocal) GetAll() ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range l.tasks {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (l *fakeLocal) GetByID(id string) (*domain.Task, error) {
	t, ok := l.tasks[id]
	if !ok {
		return nil, errNotFound(id)
	}
	clone := *t
	return &clone, nil
}

func (l *fakeLocal) Save(t *domain.Task) (*domain.Task, error) {
	clone := *t
	l.tasks[clone.ID] = &clone
	return &clone, nil
}

func (l *fakeLocal) Delete(id string) error {
	delete(l.tasks, id)
	return nil
}

func (l *fakeLocal) Rename(oldID, newID string) error {
	t, ok := l.tasks[oldID]
	if !ok {
		return errNotFound(oldID)
	}
	t.ID = newID
	l.tasks[newID] = t
	delete(l.tasks, oldID)
	return nil
}

func (l *fakeLocal) StampSync(id string, lastSynced time.Time, pushChanges bool) error {
	t, ok := l.tasks[id]
	if !ok {
		return errNotFound(id)
	}
	r, _ := t.Remote()
	r.LastSynced = lastSynced
	r.PushChanges = pushChanges
	t.Provider = r
	return nil
}

type errNotFound string

func (e errNotFound) Error() string { return "task not found: " + string(e) }

// fakeRemote is a minimal RemoteClient double scoped to one test's needs.
type fakeRemote struct {
	meta  *remote.ProjectMetadata
	items []remote.Item
	repos map[string]*remote.RepositoryInfo

	createdTitle string
	createdNode  string
	createdNum   int

	updatedTitle  string
	labelsAdded   []string
	labelsRemoved []string
}

func (f *fakeRemote) Viewer() (string, error) { return "tester", nil }

func (f *fakeRemote) FetchProjectMetadata(projectNumber int, statusFieldName, priorityFieldName string) (*remote.ProjectMetadata, error) {
	return f.meta, nil
}

func (f *fakeRemote) FetchItems(meta *remote.ProjectMetadata, includeDrafts, includePRs, includeClosed bool) ([]remote.Item, error) {
	return f.items, nil
}

func (f *fakeRemote) FetchRepository(repo string) (*remote.RepositoryInfo, error) {
	if info, ok := f.repos[repo]; ok {
		return info, nil
	}
	return &remote.RepositoryInfo{ID: "repo-node", Labels: map[string]string{}}, nil
}

func (f *fakeRemote) CreateIssue(repositoryID, title, body string, labelIDs []string) (string, int, error) {
	f.createdTitle = title
	return f.createdNode, f.createdNum, nil
}

func (f *fakeRemote) UpdateIssue(issueNodeID string, title, body *string) error {
	if title != nil {
		f.updatedTitle = *title
	}
	return nil
}
func (f *fakeRemote) CloseIssue(issueNodeID string) error { return nil }
func (f *fakeRemote) AddItemToProject(projectID, contentID string) (string, error) {
	return "item-" + contentID, nil
}
func (f *fakeRemote) UpdateItemFieldOption(projectID, itemID, fieldID, optionID string) error {
	return nil
}
func (f *fakeRemote) UpdateItemPosition(projectID, itemID, afterID string) error { return nil }
func (f *fakeRemote) AddLabels(labelableID string, labelIDs []string) error {
	f.labelsAdded = append(f.labelsAdded, labelIDs...)
	return nil
}
func (f *fakeRemote) RemoveLabels(labelableID string, labelIDs []string) error {
	f.labelsRemoved = append(f.labelsRemoved, labelIDs...)
	return nil
}

func testConfig() *config.Config {
	c := config.Default()
	c.Board = config.DefaultBoardConfig()
	c.Remote = &config.RemoteConfig{
		DefaultRepo: "acme/proj",
		Sync:        &config.SyncConfig{Enabled: true},
	}
	return c
}

func TestFindLocalOnlyTasksExcludesSyncedAndRemoteBacked(t *testing.T) {
	local := newFakeLocal(
		&domain.Task{ID: "plain.md", Provider: domain.FileData{}},
		&domain.Task{ID: "acme-proj#1-synced.md", Provider: domain.RemoteData{Repository: "acme/proj", IssueNumber: 1}},
	)
	e := New(testConfig(), local, &fakeRemote{}, 0, remote.OwnerOrg, "acme", clock.Real{}, nil)

	got, err := e.FindLocalOnlyTasks()
	if err != nil {
		t.Fatalf("FindLocalOnlyTasks: %v", err)
	}
	if len(got) != 1 || got[0].ID != "plain.md" {
		t.Fatalf("got %v, want only plain.md", got)
	}
}

func TestCheckConflictOnlyWhenBothSidesChanged(t *testing.T) {
	lastSynced := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &Engine{cfg: testConfig()}

	localOnlyChanged := &domain.Task{
		Updated:  lastSynced.Add(24 * time.Hour),
		Provider: domain.RemoteData{LastSynced: lastSynced},
	}
	item := remote.Item{UpdatedAt: lastSynced}
	if c := e.checkConflict(localOnlyChanged, item); c != nil {
		t.Fatalf("expected no conflict when only local changed, got %+v", c)
	}

	both := &domain.Task{
		ID:       "t.md",
		Updated:  lastSynced.Add(24 * time.Hour),
		Provider: domain.RemoteData{LastSynced: lastSynced, Repository: "acme/proj", IssueNumber: 9},
	}
	remoteChanged := remote.Item{UpdatedAt: lastSynced.Add(12 * time.Hour)}
	c := e.checkConflict(both, remoteChanged)
	if c == nil {
		t.Fatal("expected a conflict when both sides changed")
	}
	if c.TaskID != "t.md" || c.IssueNumber != 9 {
		t.Fatalf("conflict = %+v, unexpected identity fields", c)
	}
}

func TestSyncFromGithubSkipsConflictUnlessForced(t *testing.T) {
	lastSynced := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Task{
		ID:      "acme-proj#9-flaky.md",
		Updated: lastSynced.Add(48 * time.Hour),
		Title:   "old title",
		Provider: domain.RemoteData{
			Repository: "acme/proj", IssueNumber: 9, LastSynced: lastSynced,
		},
	}
	local := newFakeLocal(existing)
	rc := &fakeRemote{
		meta: &remote.ProjectMetadata{ProjectID: "proj-1", StatusField: remote.Field{Name: "Status"}},
		items: []remote.Item{
			{Repository: "acme/proj", Number: 9, Title: "new title", UpdatedAt: lastSynced.Add(24 * time.Hour)},
		},
	}
	e := New(testConfig(), local, rc, 1, remote.OwnerOrg, "acme", clock.Fixed(time.Now().UTC()), nil)

	result := e.SyncFromGitHub(false, false)
	if result.Conflicts != 1 {
		t.Fatalf("Conflicts = %d, want 1", result.Conflicts)
	}
	if local.tasks["acme-proj#9-flaky.md"].Title != "old title" {
		t.Fatalf("expected file untouched on conflict, got title %q", local.tasks["acme-proj#9-flaky.md"].Title)
	}

	forced := e.SyncFromGitHub(false, true)
	if forced.Pulled != 1 {
		t.Fatalf("forced Pulled = %d, want 1", forced.Pulled)
	}
	if local.tasks["acme-proj#9-flaky.md"].Title != "new title" {
		t.Fatalf("expected force sync to overwrite, title = %q", local.tasks["acme-proj#9-flaky.md"].Title)
	}
}

func TestDetectChangesListsAreDisjoint(t *testing.T) {
	lastSynced := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pullCandidate := &domain.Task{
		ID:       "acme-proj#1-pull.md",
		Updated:  lastSynced,
		Provider: domain.RemoteData{Repository: "acme/proj", IssueNumber: 1, LastSynced: lastSynced},
	}
	conflictCandidate := &domain.Task{
		ID:       "acme-proj#2-conflict.md",
		Updated:  lastSynced.Add(48 * time.Hour),
		Provider: domain.RemoteData{Repository: "acme/proj", IssueNumber: 2, LastSynced: lastSynced},
	}
	local := newFakeLocal(pullCandidate, conflictCandidate)
	rc := &fakeRemote{
		meta: &remote.ProjectMetadata{ProjectID: "proj-1", StatusField: remote.Field{Name: "Status"}},
		items: []remote.Item{
			{Repository: "acme/proj", Number: 1, UpdatedAt: lastSynced.Add(24 * time.Hour)},
			{Repository: "acme/proj", Number: 2, UpdatedAt: lastSynced.Add(24 * time.Hour)},
		},
	}
	e := New(testConfig(), local, rc, 1, remote.OwnerOrg, "acme", clock.Real{}, nil)

	changes := e.DetectChanges()
	seen := map[string]int{}
	for _, id := range changes.ToPull {
		seen[id]++
	}
	for _, id := range changes.ToPush {
		seen[id]++
	}
	for _, c := range changes.Conflicts {
		seen[c.TaskID]++
	}
	for id, count := range seen {
		if count > 1 {
			t.Fatalf("task %q appears in %d of the three disjoint lists", id, count)
		}
	}
	if len(changes.ToPull) != 1 || changes.ToPull[0] != "acme-proj#1-pull.md" {
		t.Fatalf("ToPull = %v, want only acme-proj#1-pull.md", changes.ToPull)
	}
	if len(changes.Conflicts) != 1 || changes.Conflicts[0].TaskID != "acme-proj#2-conflict.md" {
		t.Fatalf("Conflicts = %v, want only acme-proj#2-conflict.md", changes.Conflicts)
	}
}

func TestPushNewIssuesDryRunDoesNotCallRemote(t *testing.T) {
	local := newFakeLocal()
	rc := &fakeRemote{}
	e := New(testConfig(), local, rc, 0, remote.OwnerOrg, "acme", clock.Real{}, nil)

	tasks := []*domain.Task{{ID: "fix-thing.md", Title: "Fix thing", State: "todo", Provider: domain.FileData{}}}
	result := e.PushNewIssues(tasks, true)
	if len(result.Created) != 1 {
		t.Fatalf("Created = %v, want one dry-run entry", result.Created)
	}
	if rc.createdTitle != "" {
		t.Fatalf("expected no remote call on dry run, but CreateIssue was invoked with %q", rc.createdTitle)
	}
}

func TestPushUpdatesComputesLabelDiffAgainstSyncedTags(t *testing.T) {
	existing := &domain.Task{
		ID:    "acme-proj#5-task.md",
		Title: "Task",
		Tags:  []string{"urgent", "fresh"},
		Provider: domain.RemoteData{
			IssueNodeID: "issue-node-5",
			Repository:  "acme/proj",
			IssueNumber: 5,
			SyncedTags:  []string{"urgent", "stale"},
		},
	}
	local := newFakeLocal(existing)
	rc := &fakeRemote{
		repos: map[string]*remote.RepositoryInfo{
			"acme/proj": {ID: "repo-node", Labels: map[string]string{
				"urgent": "label-urgent",
				"stale":  "label-stale",
				"fresh":  "label-fresh",
			}},
		},
	}
	e := New(testConfig(), local, rc, 0, remote.OwnerOrg, "acme", clock.Real{}, nil)

	result := e.PushUpdates([]*domain.Task{existing}, false)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(rc.labelsRemoved) != 1 || rc.labelsRemoved[0] != "label-stale" {
		t.Fatalf("labelsRemoved = %v, want [label-stale]", rc.labelsRemoved)
	}
	if len(rc.labelsAdded) != 1 || rc.labelsAdded[0] != "label-fresh" {
		t.Fatalf("labelsAdded = %v, want [label-fresh]", rc.labelsAdded)
	}
	if rc.updatedTitle != "Task" {
		t.Fatalf("updatedTitle = %q, want Task", rc.updatedTitle)
	}
}

func TestPushNewIssuesCreatesIssueAndRecordsItem(t *testing.T) {
	local := newFakeLocal()
	rc := &fakeRemote{createdNode: "issue-node-42", createdNum: 42}
	e := New(testConfig(), local, rc, 0, remote.OwnerOrg, "acme", clock.Real{}, nil)

	tasks := []*domain.Task{{ID: "fix-thing.md", Title: "Fix thing", State: "todo", Provider: domain.FileData{}}}
	result := e.PushNewIssues(tasks, false)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 1 || result.Items[0].IssueID != "acme/proj#42" {
		t.Fatalf("Items = %+v, want one item for acme/proj#42", result.Items)
	}
	if rc.createdTitle != "Fix thing" {
		t.Fatalf("CreateIssue called with title %q, want Fix thing", rc.createdTitle)
	}
}
