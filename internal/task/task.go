// Package task implements the Task Service (C10): task creation with
// type templates, rename-to-title, delete, and editor invocation. Grounded
// in original_source/.../services/task_service.py for create/rename/delete
// semantics and template_service.py for the template-merge rule, with the
// teacher's internal/local/local.go directory-scan idiom ("scan existing
// ids, pick the next free one") as the idiomatic Go shape of the collision
// suffix.
package task

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/boardsync/core/internal/clock"
	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/frontmatter"
	"github.com/boardsync/core/internal/slug"
)

// Repository is the subset of the Filesystem Store the Task Service needs.
type Repository interface {
	GetByID(id string) (*domain.Task, error)
	Save(task *domain.Task) (*domain.Task, error)
	Delete(id string) error
	Rename(oldID, newID string) error
}

// EditorFunc invokes the user's editor on a filepath and returns its exit
// code; the thin external-collaborator surface named in spec §6. The Task
// Service has no TUI-suspend logic of its own (Non-goal, §1).
type EditorFunc func(path string) (exitCode int, err error)

// Service implements task creation, rename, delete, and editor invocation.
type Service struct {
	repo     Repository
	board    config.BoardConfig
	taskRoot string
	clock    clock.Clock
	logger   *slog.Logger
}

// New builds a Task Service over repo, scoped to board's type templates and
// rooted at taskRoot (for resolving templates/{type}.md).
func New(repo Repository, board config.BoardConfig, taskRoot string, c clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, board: board, taskRoot: taskRoot, clock: c, logger: logger}
}

// CreateTask creates a new local-only task. If typ names a configured type
// with a template, the template's frontmatter supplies defaults that the
// caller's explicit values override; Type is always set to the canonical
// id regardless of what the template says.
func (s *Service) CreateTask(title, state, priority string, tags []string, typ string) (*domain.Task, error) {
	now := s.clock.Now()
	task := &domain.Task{
		Title:    title,
		State:    state,
		Priority: priority,
		Tags:     tags,
		Type:     typ,
		Created:  now,
		Updated:  now,
		Provider: domain.FileData{},
	}

	if typ != "" {
		s.applyTemplate(task, typ)
	}
	if task.Priority == "" {
		task.Priority = domain.DefaultPriority
	}
	if task.Type != "" {
		task.Type = s.board.ResolveType(task.Type)
	}

	task.ID = s.uniqueFilename(slug.GenerateFilename(task.Title))
	return s.repo.Save(task)
}

// applyTemplate merges a type's templates/{type}.md frontmatter and body
// into task as defaults: anything already set on task wins, anything the
// template sets that task doesn't have is filled in. Type itself is never
// taken from the template — it is always the canonical id the caller asked
// to create.
func (s *Service) applyTemplate(task *domain.Task, typ string) {
	typeDef, ok := s.board.GetType(typ)
	if !ok {
		return
	}
	path := filepath.Join(s.taskRoot, "templates", typeDef.TemplateFilename())
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read task template", "path", path, "error", err)
		}
		return
	}
	doc, err := frontmatter.Decode(data)
	if err != nil {
		s.logger.Warn("failed to parse task template", "path", path, "error", err)
		return
	}

	if task.Priority == "" {
		if v, ok := frontmatter.Get(doc.Meta, "priority"); ok {
			task.Priority = frontmatter.StringValue(v)
		}
	}
	if len(task.Tags) == 0 {
		if v, ok := frontmatter.Get(doc.Meta, "tags"); ok {
			task.Tags = frontmatter.StringSeqValue(v)
		}
	}
	if task.Body == "" {
		task.Body = doc.Body
	}
	task.Type = typ
}

// uniqueFilename appends "-1", "-2", ... (the least integer not taken) to
// base until no existing file collides with it.
func (s *Service) uniqueFilename(base string) string {
	if _, err := os.Stat(filepath.Join(s.taskRoot, base)); err != nil {
		return base
	}
	stem := strings.TrimSuffix(base, ".md")
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d.md", stem, i)
		if _, err := os.Stat(filepath.Join(s.taskRoot, candidate)); err != nil {
			return candidate
		}
	}
}

// UpdateTask saves task with Updated stamped to now.
func (s *Service) UpdateTask(t *domain.Task) (*domain.Task, error) {
	t.Updated = s.clock.Now()
	return s.repo.Save(t)
}

// DeleteTask removes a task's file and its board-order entry.
func (s *Service) DeleteTask(id string) error {
	return s.repo.Delete(id)
}

// RenameTaskToMatchTitle regenerates a task's filename from its current
// title and renames the file on disk, preserving its board-order position.
// Returns the task unchanged if the filename already matches.
func (s *Service) RenameTaskToMatchTitle(id string) (*domain.Task, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	newID := slug.GenerateFilename(t.Title)
	if newID == id {
		return t, nil
	}
	newID = s.uniqueFilename(newID)
	if newID == id {
		return t, nil
	}

	if err := s.repo.Rename(id, newID); err != nil {
		return nil, err
	}
	t.ID = newID
	return t, nil
}

// OpenInEditor invokes fn on task's on-disk path, a thin pass-through: the
// Task Service has no knowledge of terminal suspension (Non-goal, §1).
func (s *Service) OpenInEditor(task *domain.Task, fn EditorFunc) (int, error) {
	path := filepath.Join(s.taskRoot, task.ID)
	return fn(path)
}
