package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boardsync/core/internal/clock"
	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/store/filesystem"
)

func testBoard() config.BoardConfig {
	b := config.DefaultBoardConfig()
	return b
}

func TestCreateTaskDefaultsPriorityAndState(t *testing.T) {
	root := t.TempDir()
	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc := New(store, testBoard(), root, clock.Fixed(now), nil)

	got, err := svc.CreateTask("Write onboarding docs", "todo", "", nil, "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got.Priority != domain.DefaultPriority {
		t.Fatalf("Priority = %q, want default %q", got.Priority, domain.DefaultPriority)
	}
	if got.ID != "write-onboarding-docs.md" {
		t.Fatalf("ID = %q, want write-onboarding-docs.md", got.ID)
	}
	if !got.Created.Equal(now) {
		t.Fatalf("Created = %s, want %s", got.Created, now)
	}
}

func TestCreateTaskAppliesTemplate(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	template := "---\npriority: high\ntags: [ui]\n---\nDefault description.\n"
	if err := os.WriteFile(filepath.Join(root, "templates", "bug.md"), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	svc := New(store, testBoard(), root, clock.Real{}, nil)

	got, err := svc.CreateTask("Fix crash", "todo", "", nil, "bug")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got.Priority != "high" {
		t.Fatalf("Priority = %q, want high (from template)", got.Priority)
	}
	if got.Type != "bug" {
		t.Fatalf("Type = %q, want bug", got.Type)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "ui" {
		t.Fatalf("Tags = %v, want [ui]", got.Tags)
	}
}

func TestCreateTaskExplicitValuesWinOverTemplate(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	template := "---\npriority: high\n---\n"
	if err := os.WriteFile(filepath.Join(root, "templates", "bug.md"), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	svc := New(store, testBoard(), root, clock.Real{}, nil)

	got, err := svc.CreateTask("Fix crash", "todo", "low", nil, "bug")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got.Priority != "low" {
		t.Fatalf("Priority = %q, want explicit low to win over template", got.Priority)
	}
}

func TestCreateTaskFilenameCollisionGetsSuffix(t *testing.T) {
	root := t.TempDir()
	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	svc := New(store, testBoard(), root, clock.Real{}, nil)

	first, err := svc.CreateTask("Fix bug", "todo", "", nil, "")
	if err != nil {
		t.Fatalf("CreateTask first: %v", err)
	}
	second, err := svc.CreateTask("Fix bug", "todo", "", nil, "")
	if err != nil {
		t.Fatalf("CreateTask second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both got %q", first.ID)
	}
}

func TestUpdateTaskStampsUpdated(t *testing.T) {
	root := t.TempDir()
	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := New(store, testBoard(), root, clock.Fixed(now), nil)

	created, err := svc.CreateTask("Task one", "todo", "", nil, "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	created.Title = "Task one renamed"
	updated, err := svc.UpdateTask(created)
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !updated.Updated.Equal(now) {
		t.Fatalf("Updated = %s, want %s", updated.Updated, now)
	}
}

func TestDeleteTaskRemovesFile(t *testing.T) {
	root := t.TempDir()
	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	svc := New(store, testBoard(), root, clock.Real{}, nil)

	created, err := svc.CreateTask("Throwaway", "todo", "", nil, "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, created.ID)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
}

func TestRenameTaskToMatchTitleNoopWhenAlreadyMatching(t *testing.T) {
	root := t.TempDir()
	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	svc := New(store, testBoard(), root, clock.Real{}, nil)

	created, err := svc.CreateTask("Stable title", "todo", "", nil, "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	got, err := svc.RenameTaskToMatchTitle(created.ID)
	if err != nil {
		t.Fatalf("RenameTaskToMatchTitle: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("ID changed to %q, want unchanged %q", got.ID, created.ID)
	}
}

func TestRenameTaskToMatchTitleRenamesFile(t *testing.T) {
	root := t.TempDir()
	store, err := filesystem.New(root, testBoard())
	if err != nil {
		t.Fatalf("filesystem.New: %v", err)
	}
	svc := New(store, testBoard(), root, clock.Real{}, nil)

	created, err := svc.CreateTask("Original title", "todo", "", nil, "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	reloaded, err := store.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	reloaded.Title = "Brand new title"
	if _, err := store.Save(reloaded); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := svc.RenameTaskToMatchTitle(created.ID)
	if err != nil {
		t.Fatalf("RenameTaskToMatchTitle: %v", err)
	}
	if got.ID != "brand-new-title.md" {
		t.Fatalf("ID = %q, want brand-new-title.md", got.ID)
	}
	if _, err := os.Stat(filepath.Join(root, "brand-new-title.md")); err != nil {
		t.Fatalf("expected renamed file on disk: %v", err)
	}
}
