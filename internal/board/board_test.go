package board

import (
	"testing"
	"time"

	"github.com/boardsync/core/internal/clock"
	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
)

// fakeRepo is an in-memory Repository double.
type fakeRepo struct {
	tasks map[string]*domain.Task
	saves int
}

func newFakeRepo(tasks ...*domain.Task) *fakeRepo {
	r := &fakeRepo{tasks: map[string]*domain.Task{}}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeRepo) GetByID(id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, &notFoundError{id}
	}
	clone := *t
	return &clone, nil
}

func (r *fakeRepo) Save(t *domain.Task) (*domain.Task, error) {
	r.saves++
	clone := *t
	r.tasks[clone.ID] = &clone
	return &clone, nil
}

func (r *fakeRepo) ReorderTask(id string, delta int) (bool, error) {
	return false, nil
}

type notFoundError struct{ id string }

func (e *notFoundError) Error() string { return "task not found: " + e.id }

func testBoard() config.BoardConfig {
	return config.BoardConfig{
		Columns: []config.Column{
			{ID: "todo"},
			{ID: "in_progress"},
			{ID: "done"},
		},
	}
}

func TestMoveTaskLeftAtFirstColumnIsNoop(t *testing.T) {
	original := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakeRepo(&domain.Task{ID: "t.md", State: "todo", Updated: original})
	svc := New(repo, testBoard(), clock.Fixed(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	got, err := svc.MoveTaskLeft("t.md")
	if err != nil {
		t.Fatalf("MoveTaskLeft: %v", err)
	}
	if got.State != "todo" {
		t.Fatalf("State = %q, want todo", got.State)
	}
	if !got.Updated.Equal(original) {
		t.Fatalf("Updated changed to %s, want unchanged at %s", got.Updated, original)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no Save call on a boundary no-op, got %d", repo.saves)
	}
}

func TestMoveTaskRightAtLastColumnIsNoop(t *testing.T) {
	repo := newFakeRepo(&domain.Task{ID: "t.md", State: "done"})
	svc := New(repo, testBoard(), clock.Real{})

	got, err := svc.MoveTaskRight("t.md")
	if err != nil {
		t.Fatalf("MoveTaskRight: %v", err)
	}
	if got.State != "done" {
		t.Fatalf("State = %q, want done", got.State)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no Save call, got %d", repo.saves)
	}
}

func TestMoveTaskRightAdvancesColumn(t *testing.T) {
	repo := newFakeRepo(&domain.Task{ID: "t.md", State: "todo"})
	svc := New(repo, testBoard(), clock.Fixed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	got, err := svc.MoveTaskRight("t.md")
	if err != nil {
		t.Fatalf("MoveTaskRight: %v", err)
	}
	if got.State != "in_progress" {
		t.Fatalf("State = %q, want in_progress", got.State)
	}
	if repo.saves != 1 {
		t.Fatalf("expected one Save call, got %d", repo.saves)
	}
}

func TestArchiveAndUnarchive(t *testing.T) {
	repo := newFakeRepo(&domain.Task{ID: "t.md", State: "in_progress"})
	svc := New(repo, testBoard(), clock.Real{})

	archived, err := svc.ArchiveTask("t.md")
	if err != nil {
		t.Fatalf("ArchiveTask: %v", err)
	}
	if archived.State != domain.StateArchived {
		t.Fatalf("State = %q, want %q", archived.State, domain.StateArchived)
	}

	unarchived, err := svc.UnarchiveTask("t.md")
	if err != nil {
		t.Fatalf("UnarchiveTask: %v", err)
	}
	if unarchived.State != "todo" {
		t.Fatalf("State = %q, want the first configured column todo", unarchived.State)
	}
}

func TestMoveTaskLeftUnknownStateIsNoop(t *testing.T) {
	repo := newFakeRepo(&domain.Task{ID: "t.md", State: domain.StateArchived})
	svc := New(repo, testBoard(), clock.Real{})

	got, err := svc.MoveTaskLeft("t.md")
	if err != nil {
		t.Fatalf("MoveTaskLeft: %v", err)
	}
	if got.State != domain.StateArchived {
		t.Fatalf("State = %q, want unchanged %q", got.State, domain.StateArchived)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no Save call, got %d", repo.saves)
	}
}
