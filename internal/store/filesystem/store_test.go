package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
)

func testBoard() config.BoardConfig {
	return config.DefaultBoardConfig()
}

func TestSaveAssignsIDAndPersistsOrder(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, testBoard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	task := &domain.Task{Title: "Write onboarding docs", State: "todo", Priority: "medium"}
	saved, err := s.Save(task)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID != "write-onboarding-docs.md" {
		t.Fatalf("ID = %q, want write-onboarding-docs.md", saved.ID)
	}
	if task.ID != "" {
		t.Fatalf("Save must not mutate the caller's task, got ID=%q", task.ID)
	}

	if _, err := os.Stat(filepath.Join(root, saved.ID)); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	order, err := loadBoardOrder(filepath.Join(root, orderFilename), testBoard())
	if err != nil {
		t.Fatalf("loadBoardOrder: %v", err)
	}
	if order.ColumnOf(saved.ID) != "todo" {
		t.Fatalf("ColumnOf = %q, want todo", order.ColumnOf(saved.ID))
	}
}

func TestSaveCollisionGetsSuffix(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root, testBoard())

	first, err := s.Save(&domain.Task{Title: "Fix bug", State: "todo"})
	if err != nil {
		t.Fatalf("Save first: %v", err)
	}
	second, err := s.Save(&domain.Task{Title: "Fix bug", State: "todo"})
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both were %q", first.ID)
	}
	if second.ID != "fix-bug-2.md" {
		t.Fatalf("ID = %q, want fix-bug-2.md", second.ID)
	}
}

func TestGetAllSortsByBoardOrderAndReconciles(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root, testBoard())

	a, _ := s.Save(&domain.Task{Title: "Task A", State: "todo"})
	b, _ := s.Save(&domain.Task{Title: "Task B", State: "todo"})

	// Simulate an external edit that moves B's state without updating the
	// order file: the file is authoritative (§4.4), so GetAll should move
	// it and persist the correction.
	b.State = "done"
	if err := writeTaskFile(filepath.Join(root, b.ID), b); err != nil {
		t.Fatalf("writeTaskFile: %v", err)
	}

	tasks, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].ID != a.ID || tasks[1].ID != b.ID {
		t.Fatalf("GetAll order = [%s %s], want [%s %s]", tasks[0].ID, tasks[1].ID, a.ID, b.ID)
	}

	order, err := loadBoardOrder(filepath.Join(root, orderFilename), testBoard())
	if err != nil {
		t.Fatalf("loadBoardOrder: %v", err)
	}
	if order.ColumnOf(b.ID) != "done" {
		t.Fatalf("ColumnOf(b) = %q, want done", order.ColumnOf(b.ID))
	}
	if order.ColumnOf(a.ID) != "todo" {
		t.Fatalf("ColumnOf(a) = %q, want todo", order.ColumnOf(a.ID))
	}
}

func TestReconcileDropsMissingFiles(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root, testBoard())

	task, _ := s.Save(&domain.Task{Title: "Temporary", State: "todo"})
	if err := os.Remove(filepath.Join(root, task.ID)); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	tasks, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("len(tasks) = %d, want 0", len(tasks))
	}

	order, err := loadBoardOrder(filepath.Join(root, orderFilename), testBoard())
	if err != nil {
		t.Fatalf("loadBoardOrder: %v", err)
	}
	if order.ColumnOf(task.ID) != "" {
		t.Fatalf("expected %q to be dropped from the order", task.ID)
	}
}

func TestDeleteRemovesFileAndOrderEntry(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root, testBoard())

	task, _ := s.Save(&domain.Task{Title: "Disposable", State: "todo"})
	if err := s.Delete(task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, task.ID)); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err = %v", err)
	}
	if _, err := s.GetByID(task.ID); err == nil {
		t.Fatalf("expected NotFound after delete")
	}
}

func TestRenamePreservesColumnPosition(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root, testBoard())

	task, _ := s.Save(&domain.Task{Title: "Old Title", State: "in_progress"})
	newID := "new-title.md"
	task.Title = "New Title"
	if err := writeTaskFile(filepath.Join(root, task.ID), task); err != nil {
		t.Fatalf("writeTaskFile: %v", err)
	}
	if err := s.Rename(task.ID, newID); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	order, err := loadBoardOrder(filepath.Join(root, orderFilename), testBoard())
	if err != nil {
		t.Fatalf("loadBoardOrder: %v", err)
	}
	if order.ColumnOf(newID) != "in_progress" {
		t.Fatalf("ColumnOf(newID) = %q, want in_progress", order.ColumnOf(newID))
	}
}

func TestReaderWriterRoundTripsRemoteData(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	task := &domain.Task{
		ID:       "acme-widgets#42-fix-the-thing.md",
		Title:    "Fix the thing",
		Body:     "Some description.",
		State:    "todo",
		Priority: "high",
		Type:     "bug",
		Tags:     []string{"urgent"},
		Created:  now,
		Updated:  now,
		Provider: domain.RemoteData{
			ProjectItemID: "PVTI_abc",
			IssueNodeID:   "I_def",
			Repository:    "acme/widgets",
			IssueNumber:   42,
			TypeLabel:     "bug",
			PriorityLabel: "priority:high",
			LastSynced:    now,
		},
	}
	path := filepath.Join(root, task.ID)
	if err := writeTaskFile(path, task); err != nil {
		t.Fatalf("writeTaskFile: %v", err)
	}

	got, err := readTaskFile(path, testBoard())
	if err != nil {
		t.Fatalf("readTaskFile: %v", err)
	}
	r, ok := got.Remote()
	if !ok {
		t.Fatalf("expected remote provider data")
	}
	if r.Repository != "acme/widgets" || r.IssueNumber != 42 {
		t.Fatalf("remote data = %+v", r)
	}
	if !got.Updated.Equal(now) {
		t.Fatalf("Updated = %v, want %v", got.Updated, now)
	}
}

func TestWriteTaskFileUsesExplicitUTCOffset(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	task := &domain.Task{
		ID:      "stamped.md",
		Title:   "Stamped",
		State:   "todo",
		Created: now,
		Updated: now,
	}
	path := filepath.Join(root, task.ID)
	if err := writeTaskFile(path, task); err != nil {
		t.Fatalf("writeTaskFile: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(raw), "2026-01-02T03:04:05Z") {
		t.Fatalf("wrote Z-suffixed timestamp, want explicit +00:00:\n%s", raw)
	}
	if !strings.Contains(string(raw), "2026-01-02T03:04:05+00:00") {
		t.Fatalf("expected an explicit +00:00 timestamp, got:\n%s", raw)
	}
}
