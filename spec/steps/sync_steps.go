// Package steps holds the godog step definitions for the sync scenarios,
// grounded in the teacher's spec/steps/common_steps.go wiring shape but
// driving the real packages in-process rather than shelling out to a CLI
// binary, since every collaborator here is a plain Go interface.
package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boardsync/core/internal/board"
	"github.com/boardsync/core/internal/clock"
	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/store/filesystem"
	"github.com/boardsync/core/internal/store/remote"
	syncpkg "github.com/boardsync/core/internal/sync"
	"github.com/boardsync/core/spec/support"
	"github.com/cucumber/godog"
	"gopkg.in/yaml.v3"
)

type orderFile struct {
	Columns  map[string][]string `yaml:"columns"`
	Archived []string            `yaml:"archived,omitempty"`
}

// world holds everything one scenario's steps share.
type world struct {
	env   *support.TestEnv
	board config.BoardConfig
	store *filesystem.Store
	fake  *support.FakeRemote
	clk   clock.Fixed

	engine *syncpkg.Engine

	task         *domain.Task
	taskBefore   *domain.Task
	changes      *syncpkg.ChangeSet
	syncResult   *syncpkg.SyncResult
	pushResult   *syncpkg.PushResult
	createdIssue string

	labelDiff remote.LabelDiff
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (w *world) cfg() *config.Config {
	c := config.Default()
	c.Board = w.board
	c.Remote = &config.RemoteConfig{
		DefaultRepo: "acme/proj",
		Sync:        &config.SyncConfig{Enabled: true},
	}
	return c
}

func (w *world) newEngine() *syncpkg.Engine {
	return syncpkg.New(w.cfg(), w.store, w.fake, 1, remote.OwnerOrg, "acme", w.clk, nil)
}

func (w *world) aTaskRootWithBoardColumns(colsCSV string) error {
	env, err := support.NewTestEnv()
	if err != nil {
		return err
	}
	w.env = env
	if err := env.CreateTaskRoot(); err != nil {
		return err
	}

	ids := splitCSV(colsCSV)
	cols := make([]config.Column, len(ids))
	for i, id := range ids {
		cols[i] = config.Column{ID: id, Title: strings.Title(strings.ReplaceAll(id, "_", " "))}
	}
	w.board = config.BoardConfig{
		Columns: cols,
		Types: []config.TypeDef{
			{ID: "bug"},
			{ID: "feature"},
		},
	}
	w.fake = support.NewFakeRemote()
	w.fake.ViewerLogin = "tester"
	w.clk = clock.Fixed(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	return nil
}

func (w *world) prioritiesAre(csv string) error {
	for _, id := range splitCSV(csv) {
		w.board.Priorities = append(w.board.Priorities, config.Priority{ID: id, Label: strings.Title(id)})
	}
	st, err := filesystem.New(w.env.TaskRoot, w.board)
	if err != nil {
		return err
	}
	w.store = st
	return nil
}

func parseRFC3339(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t.UTC()
}

func parseIssueRef(ref string) (repo string, number int) {
	parts := strings.SplitN(ref, "#", 2)
	repo = parts[0]
	fmt.Sscanf(parts[1], "%d", &number)
	return
}

func (w *world) theRemoteProjectHasItem(ref, title, status, labelsCSV string) error {
	repo, number := parseIssueRef(ref)
	w.fake.Meta = &remote.ProjectMetadata{ProjectID: "project-1"}
	w.fake.Items = append(w.fake.Items, remote.Item{
		ProjectItemID: fmt.Sprintf("item-%d", number),
		Kind:          "issue",
		IssueNodeID:   fmt.Sprintf("issue-node-%d", number),
		Repository:    repo,
		Number:        number,
		Title:         title,
		StatusName:    status,
		Labels:        splitCSV(labelsCSV),
		UpdatedAt:     w.clk.Now(),
	})
	return nil
}

func (w *world) theRemoteProjectHasItemUpdatedAt(ref, ts string) error {
	repo, number := parseIssueRef(ref)
	w.fake.Meta = &remote.ProjectMetadata{ProjectID: "project-1"}
	w.fake.Items = append(w.fake.Items, remote.Item{
		ProjectItemID: fmt.Sprintf("item-%d", number),
		Kind:          "issue",
		IssueNodeID:   fmt.Sprintf("issue-node-%d", number),
		Repository:    repo,
		Number:        number,
		Title:         "flaky test",
		StatusName:    "Todo",
		UpdatedAt:     parseRFC3339(ts),
	})
	return nil
}

func (w *world) iSyncFromGithub() error {
	w.engine = w.newEngine()
	w.syncResult = w.engine.SyncFromGitHub(false, false)
	return nil
}

func (w *world) iSyncFromGithubWithForce() error {
	w.engine = w.newEngine()
	w.syncResult = w.engine.SyncFromGitHub(false, true)
	return nil
}

func (w *world) iDetectChanges() error {
	w.engine = w.newEngine()
	w.changes = w.engine.DetectChanges()
	return nil
}

func (w *world) aTaskFileExists(name string) error {
	if !w.env.TaskFileExists(name) {
		return fmt.Errorf("expected task file %q to exist", name)
	}
	return nil
}

func (w *world) taskHasState(name, want string) error {
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	if t.State != want {
		return fmt.Errorf("task %q has state %q, want %q", name, t.State, want)
	}
	return nil
}

func (w *world) taskHasType(name, want string) error {
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	if t.Type != want {
		return fmt.Errorf("task %q has type %q, want %q", name, t.Type, want)
	}
	return nil
}

func (w *world) taskHasPriority(name, want string) error {
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	if t.Priority != want {
		return fmt.Errorf("task %q has priority %q, want %q", name, t.Priority, want)
	}
	return nil
}

func (w *world) readOrder() (orderFile, error) {
	var of orderFile
	raw, err := w.env.ReadTaskFile("tasks.yaml")
	if err != nil {
		return of, err
	}
	err = yaml.Unmarshal([]byte(raw), &of)
	return of, err
}

func (w *world) boardOrderListsUnderColumn(id, column string) error {
	of, err := w.readOrder()
	if err != nil {
		return err
	}
	for _, got := range of.Columns[column] {
		if got == id {
			return nil
		}
	}
	return fmt.Errorf("expected %q in column %q, order was %v", id, column, of.Columns)
}

func (w *world) boardOrderListsInSameColumnAsBefore(id string) error {
	of, err := w.readOrder()
	if err != nil {
		return err
	}
	for _, got := range of.Columns[w.task.State] {
		if got == id {
			return nil
		}
	}
	return fmt.Errorf("expected %q in column %q, order was %v", id, w.task.State, of.Columns)
}

func (w *world) aSyncedTaskLastSyncedAtLocallyUpdatedAt(name, lastSynced, updated string) error {
	body := fmt.Sprintf(`---
title: Flaky Test
state: todo
priority: medium
created: %s
updated: %s
github:
  project_item_id: item-9
  issue_node_id: issue-node-9
  repository: acme/proj
  issue_number: 9
  last_synced: %s
push_changes: false
---
body
`, lastSynced, updated, lastSynced)
	return w.env.WriteTaskFile(name, body)
}

func (w *world) theSyncResultReportsNConflicts(n int) error {
	if w.syncResult.Conflicts != n {
		return fmt.Errorf("got %d conflicts, want %d", w.syncResult.Conflicts, n)
	}
	return nil
}

func (w *world) taskIsUnchangedOnDisk(name string) error {
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	r, _ := t.Remote()
	if !r.LastSynced.Equal(parseRFC3339("2026-01-01T00:00:00Z")) {
		return fmt.Errorf("expected task to be unchanged, last_synced is now %s", r.LastSynced)
	}
	return nil
}

func (w *world) taskIsUpdatedOnDisk(name string) error {
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	r, _ := t.Remote()
	if r.LastSynced.Equal(parseRFC3339("2026-01-01T00:00:00Z")) {
		return fmt.Errorf("expected task to be overwritten by force sync, but last_synced is unchanged")
	}
	return nil
}

func (w *world) conflictListContains(ref string) error {
	for _, c := range w.changes.Conflicts {
		if c.Repository+"#"+fmt.Sprint(c.IssueNumber) == ref {
			return nil
		}
	}
	return fmt.Errorf("conflict list does not contain %q: %+v", ref, w.changes.Conflicts)
}

func (w *world) pullListDoesNotContain(filename string) error {
	for _, id := range w.changes.ToPull {
		if id == filename {
			return fmt.Errorf("pull list unexpectedly contains %q", filename)
		}
	}
	return nil
}

func (w *world) pushListDoesNotContain(filename string) error {
	for _, id := range w.changes.ToPush {
		if id == filename {
			return fmt.Errorf("push list unexpectedly contains %q", filename)
		}
	}
	return nil
}

func (w *world) aTaskFileWithRawState(name, state string) error {
	body := fmt.Sprintf(`---
title: Legacy Task
state: %s
priority: medium
created: 2026-01-01T00:00:00+00:00
updated: 2026-01-01T00:00:00+00:00
---
body
`, state)
	return w.env.WriteTaskFile(name, body)
}

func (w *world) iLoadAllTasks() error {
	tasks, err := w.store.GetAll()
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.ID == "legacy-task.md" {
			w.task = t
		}
	}
	if w.task == nil {
		return fmt.Errorf("legacy-task.md not found among loaded tasks")
	}
	return nil
}

func (w *world) rawFileStillContainsState(name, want string) error {
	raw, err := w.env.ReadTaskFile(name)
	if err != nil {
		return err
	}
	if !strings.Contains(raw, "state: "+want) {
		return fmt.Errorf("raw file %q does not contain %q, contents:\n%s", name, "state: "+want, raw)
	}
	return nil
}

func (w *world) iSaveTask(name string) error {
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	_, err = w.store.Save(t)
	return err
}

func (w *world) aTaskFileWithStateTypePriorityTags(name, state, typ, priority, tagsCSV string) error {
	tags := splitCSV(tagsCSV)
	tagsYAML := ""
	if len(tags) > 0 {
		tagsYAML = "tags: [" + strings.Join(tags, ", ") + "]\n"
	}
	body := fmt.Sprintf(`---
title: Fix Thing
state: %s
type: %s
priority: %s
%s---
body
`, state, typ, priority, tagsYAML)
	if err := w.env.WriteTaskFile(name, body); err != nil {
		return err
	}
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	w.task = t
	return nil
}

func (w *world) iPushNewIssues() error {
	w.fake.Repos["acme/proj"] = &remote.RepositoryInfo{ID: "repo-node-1", Labels: map[string]string{"bug": "label-bug"}}
	w.fake.NextIssueNodeID = "issue-node-42"
	w.fake.NextIssueNumber = 42
	w.engine = w.newEngine()
	tasks, err := w.engine.FindLocalOnlyTasks()
	if err != nil {
		return err
	}
	w.pushResult = w.engine.PushNewIssues(tasks, false)
	return nil
}

func (w *world) oneIssueIsCreatedInTheRemote() error {
	if w.pushResult.SuccessCount() != 1 {
		return fmt.Errorf("got %d created issues, want 1", w.pushResult.SuccessCount())
	}
	w.createdIssue = "acme/proj#42"
	return nil
}

func (w *world) iHandleThePushedFileWithDisposition(disposition string) error {
	item := w.pushResult.Items[0]
	var action syncpkg.PostPushAction
	switch disposition {
	case "rename":
		action = syncpkg.ActionRename
	case "delete":
		action = syncpkg.ActionDelete
	case "archive":
		action = syncpkg.ActionArchive
	default:
		action = syncpkg.ActionKeep
	}
	return w.engine.HandlePushedFile(item.Task, item.IssueID, action)
}

func (w *world) iMoveTheTaskLeft() error {
	return w.moveTask(-1, false)
}

func (w *world) iMoveTheTaskRight() error {
	return w.moveTask(1, true)
}

func (w *world) moveTask(delta int, right bool) error {
	svc := board.New(w.store, w.board, w.clk)
	before, err := w.store.GetByID(w.task.ID)
	if err != nil {
		return err
	}
	w.taskBefore = before
	var after *domain.Task
	if right {
		after, err = svc.MoveTaskRight(before.ID)
	} else {
		after, err = svc.MoveTaskLeft(before.ID)
	}
	if err != nil {
		return err
	}
	w.task = after
	return nil
}

func (w *world) theTaskStateIsStill(want string) error {
	if w.task.State != want {
		return fmt.Errorf("got state %q, want %q", w.task.State, want)
	}
	return nil
}

func (w *world) theTaskWasNotReSaved() error {
	if !w.task.Updated.Equal(w.taskBefore.Updated) {
		return fmt.Errorf("task was re-saved: updated changed from %s to %s", w.taskBefore.Updated, w.task.Updated)
	}
	return nil
}

func (w *world) aTaskHadTypeWithTypeLabelAndTags(typ, typeLabel, tagsCSV string) error {
	w.task = &domain.Task{Type: typ, Tags: splitCSV(tagsCSV)}
	w.task.Provider = domain.RemoteData{TypeLabel: typeLabel, PrioritySource: domain.PriorityFromLabel}
	return nil
}

func (w *world) itsTypeChangesToWithTags(newType, tagsCSV string) error {
	r, _ := w.task.Remote()
	w.labelDiff = remote.ComputeLabelDiff(w.board, r.TypeLabel, r.PriorityLabel, w.task.Tags, newType, w.task.Priority, splitCSV(tagsCSV), domain.PriorityFromLabel)
	return nil
}

func containsAll(set []string, want []string) bool {
	have := map[string]bool{}
	for _, s := range set {
		have[s] = true
	}
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}

func (w *world) theLabelDiffAdds(csv string) error {
	if !containsAll(w.labelDiff.Add, splitCSV(csv)) {
		return fmt.Errorf("label diff add = %v, want to contain %v", w.labelDiff.Add, splitCSV(csv))
	}
	return nil
}

func (w *world) theLabelDiffRemoves(csv string) error {
	if !containsAll(w.labelDiff.Remove, splitCSV(csv)) {
		return fmt.Errorf("label diff remove = %v, want to contain %v", w.labelDiff.Remove, splitCSV(csv))
	}
	return nil
}

func (w *world) theLabelDiffDoesNotMention(tag string) error {
	for _, l := range w.labelDiff.Add {
		if l == tag {
			return fmt.Errorf("label diff unexpectedly adds %q", tag)
		}
	}
	for _, l := range w.labelDiff.Remove {
		if l == tag {
			return fmt.Errorf("label diff unexpectedly removes %q", tag)
		}
	}
	return nil
}

// InitializeScenario wires every step above into ctx, and tears down the
// scenario's temp directory after each run.
func InitializeScenario(ctx *godog.ScenarioContext) {
	w := &world{}

	ctx.After(func(gctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if w.env != nil {
			w.env.Cleanup()
			w.env = nil
		}
		return gctx, err
	})

	ctx.Step(`^a task root with board columns "([^"]*)"$`, w.aTaskRootWithBoardColumns)
	ctx.Step(`^priorities "([^"]*)"$`, w.prioritiesAre)

	ctx.Step(`^the remote project has item "([^"]*)" titled "([^"]*)" with status "([^"]*)" and labels "([^"]*)"$`, w.theRemoteProjectHasItem)
	ctx.Step(`^the remote project has item "([^"]*)" updated at "([^"]*)"$`, w.theRemoteProjectHasItemUpdatedAt)
	ctx.Step(`^I sync from github$`, w.iSyncFromGithub)
	ctx.Step(`^I sync from github with force$`, w.iSyncFromGithubWithForce)
	ctx.Step(`^I detect changes$`, w.iDetectChanges)

	ctx.Step(`^a task file "([^"]*)" exists$`, w.aTaskFileExists)
	ctx.Step(`^task "([^"]*)" has state "([^"]*)"$`, w.taskHasState)
	ctx.Step(`^task "([^"]*)" has type "([^"]*)"$`, w.taskHasType)
	ctx.Step(`^task "([^"]*)" has priority "([^"]*)"$`, w.taskHasPriority)
	ctx.Step(`^the board order lists "([^"]*)" under column "([^"]*)"$`, w.boardOrderListsUnderColumn)
	ctx.Step(`^the board order lists "([^"]*)" in the same column as before$`, w.boardOrderListsInSameColumnAsBefore)

	ctx.Step(`^a synced task "([^"]*)" last synced at "([^"]*)" and locally updated at "([^"]*)"$`, w.aSyncedTaskLastSyncedAtLocallyUpdatedAt)
	ctx.Step(`^the sync result reports (\d+) conflict$`, w.theSyncResultReportsNConflicts)
	ctx.Step(`^the sync result reports (\d+) conflicts$`, w.theSyncResultReportsNConflicts)
	ctx.Step(`^task "([^"]*)" is unchanged on disk$`, w.taskIsUnchangedOnDisk)
	ctx.Step(`^task "([^"]*)" is updated on disk$`, w.taskIsUpdatedOnDisk)
	ctx.Step(`^the conflict list contains "([^"]*)"$`, w.conflictListContains)
	ctx.Step(`^the pull list does not contain "([^"]*)"$`, w.pullListDoesNotContain)
	ctx.Step(`^the push list does not contain "([^"]*)"$`, w.pushListDoesNotContain)

	ctx.Step(`^a task file "([^"]*)" with raw state "([^"]*)"$`, w.aTaskFileWithRawState)
	ctx.Step(`^I load all tasks$`, w.iLoadAllTasks)
	ctx.Step(`^the raw file "([^"]*)" still contains state "([^"]*)"$`, w.rawFileStillContainsState)
	ctx.Step(`^the raw file "([^"]*)" contains state "([^"]*)"$`, w.rawFileStillContainsState)
	ctx.Step(`^I save task "([^"]*)"$`, w.iSaveTask)

	ctx.Step(`^a task file "([^"]*)" with state "([^"]*)", type "([^"]*)", priority "([^"]*)", tags "([^"]*)"$`, w.aTaskFileWithStateTypePriorityTags)
	ctx.Step(`^I push new issues$`, w.iPushNewIssues)
	ctx.Step(`^one issue is created in the remote$`, w.oneIssueIsCreatedInTheRemote)
	ctx.Step(`^I handle the pushed file with disposition "([^"]*)"$`, w.iHandleThePushedFileWithDisposition)

	ctx.Step(`^a task file "([^"]*)" with state "([^"]*)"$`, w.aTaskFileWithState)
	ctx.Step(`^I move the task left$`, w.iMoveTheTaskLeft)
	ctx.Step(`^I move the task right$`, w.iMoveTheTaskRight)
	ctx.Step(`^the task state is still "([^"]*)"$`, w.theTaskStateIsStill)
	ctx.Step(`^the task was not re-saved$`, w.theTaskWasNotReSaved)

	ctx.Step(`^a task had type "([^"]*)" with type label "([^"]*)" and tags "([^"]*)"$`, w.aTaskHadTypeWithTypeLabelAndTags)
	ctx.Step(`^its type changes to "([^"]*)" with tags "([^"]*)"$`, w.itsTypeChangesToWithTags)
	ctx.Step(`^the label diff adds "([^"]*)"$`, w.theLabelDiffAdds)
	ctx.Step(`^the label diff removes "([^"]*)"$`, w.theLabelDiffRemoves)
	ctx.Step(`^the label diff does not mention "([^"]*)"$`, w.theLabelDiffDoesNotMention)
}

func (w *world) aTaskFileWithState(name, state string) error {
	body := fmt.Sprintf(`---
title: %s
state: %s
priority: medium
created: 2026-01-01T00:00:00+00:00
updated: 2026-01-01T00:00:00+00:00
---
body
`, name, state)
	if err := w.env.WriteTaskFile(name, body); err != nil {
		return err
	}
	t, err := w.store.GetByID(name)
	if err != nil {
		return err
	}
	w.task = t
	return nil
}
