// Package filesystem implements the Filesystem Store (C5): tasks held as
// Markdown files with YAML frontmatter under a task root directory, plus a
// tasks.yaml board-order file. Adapted from the teacher's internal/local
// package (directory scan, frontmatter codec, file locking), generalized to
// this spec's flat-directory-plus-order-file layout and reconciliation
// rule (§4.4).
package filesystem

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/errs"
	"github.com/boardsync/core/internal/frontmatter"
	"github.com/boardsync/core/internal/slug"
	"gopkg.in/yaml.v3"
)

const orderFilename = "tasks.yaml"

// Store is the filesystem-backed task repository for one task root. Callers
// share a single Store per root; its mutex serializes reads and writes the
// way the teacher's local.Repository serializes directory access (§5).
type Store struct {
	mu   sync.Mutex
	root string
	cfg  config.BoardConfig
}

// New returns a Store rooted at root, creating the directory if absent.
func New(root string, cfg config.BoardConfig) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.Wrap(errs.TransportFailed, err)
	}
	return &Store{root: root, cfg: cfg}, nil
}

func (s *Store) orderPath() string {
	return filepath.Join(s.root, orderFilename)
}

// GetAll loads every task under the root, reconciling the order file
// against what's actually on disk (§4.4), and returns them sorted by board
// order (column order, then position within column; archived last).
func (s *Store) GetAll() ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks()
	if err != nil {
		return nil, err
	}
	order, err := loadBoardOrder(s.orderPath(), s.cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ParseFailed, err)
	}

	changed := s.reconcile(order, tasks)
	if changed {
		if err := saveBoardOrder(s.orderPath(), order); err != nil {
			return nil, errs.Wrap(errs.TransportFailed, err)
		}
	}

	return sortByOrder(tasks, order, s.cfg), nil
}

// GetByID loads a single task by its filename-derived id.
func (s *Store) GetByID(id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, id)
	task, err := readTaskFile(path, s.cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.NotFound, "task %q not found", id)
		}
		return nil, errs.Wrap(errs.ParseFailed, err)
	}
	return task, nil
}

// Save writes task to disk, assigning a new filename-derived ID if it
// doesn't already have one, and updates the board order. It returns a fresh
// Task rather than mutating the caller's pointer, so callers can never
// alias a Save'd task with its pre-save copy (spec §9).
func (s *Store) Save(task *domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := task.Clone()
	if out.ID == "" {
		out.ID = s.newID(out)
	}

	path := filepath.Join(s.root, out.ID)
	if err := writeTaskFile(path, out); err != nil {
		return nil, errs.Wrap(errs.TransportFailed, err)
	}

	order, err := loadBoardOrder(s.orderPath(), s.cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ParseFailed, err)
	}
	order.AddTask(out.ID, out.State)
	if err := saveBoardOrder(s.orderPath(), order); err != nil {
		return nil, errs.Wrap(errs.TransportFailed, err)
	}

	return out, nil
}

// newID derives a filename-stem ID for a task that does not have one yet:
// a synced name for remote-backed tasks, a plain slug otherwise, with a
// numeric suffix on collision.
func (s *Store) newID(t *domain.Task) string {
	var base string
	if r, ok := t.Remote(); ok {
		parts := strings.SplitN(r.Repository, "/", 2)
		owner, repo := r.Repository, ""
		if len(parts) == 2 {
			owner, repo = parts[0], parts[1]
		}
		base = slug.GenerateSyncedFilename(owner, repo, r.IssueNumber, t.Title)
		return base
	}
	base = slug.GenerateFilename(t.Title)
	if _, err := os.Stat(filepath.Join(s.root, base)); err != nil {
		return base
	}
	stem := strings.TrimSuffix(base, ".md")
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d.md", stem, i)
		if _, err := os.Stat(filepath.Join(s.root, candidate)); err != nil {
			return candidate
		}
	}
}

// Delete removes a task's file and its entry in the board order.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.TransportFailed, err)
	}

	order, err := loadBoardOrder(s.orderPath(), s.cfg)
	if err != nil {
		return errs.Wrap(errs.ParseFailed, err)
	}
	order.RemoveTask(id)
	if err := saveBoardOrder(s.orderPath(), order); err != nil {
		return errs.Wrap(errs.TransportFailed, err)
	}
	return nil
}

// Rename moves a task's file from oldID to newID (used when a title edit
// changes the slug) and updates the order file to match.
func (s *Store) Rename(oldID, newID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldID == newID {
		return nil
	}
	oldPath := filepath.Join(s.root, oldID)
	newPath := filepath.Join(s.root, newID)
	if err := os.Rename(oldPath, newPath); err != nil {
		return errs.Wrap(errs.TransportFailed, err)
	}

	order, err := loadBoardOrder(s.orderPath(), s.cfg)
	if err != nil {
		return errs.Wrap(errs.ParseFailed, err)
	}
	order.RenameTask(oldID, newID)
	if err := saveBoardOrder(s.orderPath(), order); err != nil {
		return errs.Wrap(errs.TransportFailed, err)
	}
	return nil
}

// ReorderTask swaps a task with its adjacent neighbor within its own column
// (§4.8's delta-based board reorder, distinct from the remote store's
// arbitrary before/after positioning). Returns false without mutating
// anything at a column boundary.
func (s *Store) ReorderTask(id string, delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := loadBoardOrder(s.orderPath(), s.cfg)
	if err != nil {
		return false, errs.Wrap(errs.ParseFailed, err)
	}
	if !order.SwapAdjacent(id, delta) {
		return false, nil
	}
	if err := saveBoardOrder(s.orderPath(), order); err != nil {
		return false, errs.Wrap(errs.TransportFailed, err)
	}
	return true, nil
}

// StampSync rewrites only github.last_synced and push_changes in an
// already-synced task's frontmatter, leaving every other key and its
// position untouched (§4.7.3: a push_updates pass must not disturb
// user-authored keys or reorder the document). Unlike Save, which rebuilds
// the whole document from the in-memory Task, this re-reads the file on
// disk, mutates the two keys in place on the decoded node tree, and writes
// it back.
func (s *Store) StampSync(id string, lastSynced time.Time, pushChanges bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.New(errs.NotFound, "task %q not found", id)
		}
		return errs.Wrap(errs.TransportFailed, err)
	}
	doc, err := frontmatter.Decode(data)
	if err != nil {
		return errs.Wrap(errs.ParseFailed, err)
	}

	gh, ok := frontmatter.Get(doc.Meta, "github")
	if !ok || gh.Kind != yaml.MappingNode {
		return errs.New(errs.ParseFailed, "task %q has no github block to stamp", id)
	}
	frontmatter.Set(gh, "last_synced", frontmatter.Scalar(formatTime(lastSynced)))
	frontmatter.Set(doc.Meta, "push_changes", frontmatter.Bool(pushChanges))

	out, err := frontmatter.Encode(doc.Meta, doc.Body)
	if err != nil {
		return errs.Wrap(errs.ParseFailed, err)
	}
	return os.WriteFile(path, out, 0o644)
}

func (s *Store) loadTasks() (map[string]*domain.Task, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errs.Wrap(errs.TransportFailed, err)
	}

	tasks := map[string]*domain.Task{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		task, err := readTaskFile(filepath.Join(s.root, e.Name()), s.cfg)
		if err != nil {
			slog.Warn("skipping malformed task file", "file", e.Name(), "error", err)
			continue // malformed file: skipped (§7)
		}
		tasks[task.ID] = task
	}
	return tasks, nil
}

// reconcile applies spec §4.4's four-step rule: drop ids with no backing
// file, add files absent from the order to their state's column, move files
// whose on-disk state disagrees with their listed column (the file is
// authoritative), and report whether the order needs to be persisted.
func (s *Store) reconcile(order *BoardOrder, tasks map[string]*domain.Task) bool {
	changed := false

	for id := range order.AllIDs() {
		if _, ok := tasks[id]; !ok {
			order.RemoveTask(id)
			changed = true
		}
	}

	for id, task := range tasks {
		listedColumn := order.ColumnOf(id)
		if listedColumn == "" {
			order.AddTask(id, task.State)
			changed = true
			continue
		}
		if listedColumn != task.State {
			order.AddTask(id, task.State)
			changed = true
		}
	}

	return changed
}

func sortByOrder(tasks map[string]*domain.Task, order *BoardOrder, cfg config.BoardConfig) []*domain.Task {
	columns := append(append([]string{}, cfg.ColumnIDs()...), "archived")
	out := make([]*domain.Task, 0, len(tasks))
	for _, col := range columns {
		for _, id := range order.list(col) {
			if t, ok := tasks[id]; ok {
				out = append(out, t)
			}
		}
	}
	// Any task the loop above missed (should not normally happen post
	// reconcile) is still returned, sorted by id for determinism.
	seen := map[string]bool{}
	for _, t := range out {
		seen[t.ID] = true
	}
	var stragglers []*domain.Task
	for id, t := range tasks {
		if !seen[id] {
			stragglers = append(stragglers, t)
		}
	}
	sort.Slice(stragglers, func(i, j int) bool { return stragglers[i].ID < stragglers[j].ID })
	return append(out, stragglers...)
}

// --- frontmatter <-> domain.Task mapping ---

func readTaskFile(path string, cfg config.BoardConfig) (*domain.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := frontmatter.Decode(data)
	if err != nil {
		return nil, err
	}

	id := filepath.Base(path)
	title, _ := frontmatter.Get(doc.Meta, "title")
	state, _ := frontmatter.Get(doc.Meta, "state")
	priority, _ := frontmatter.Get(doc.Meta, "priority")
	typ, _ := frontmatter.Get(doc.Meta, "type")
	tags, _ := frontmatter.Get(doc.Meta, "tags")
	created, _ := frontmatter.Get(doc.Meta, "created")
	updated, _ := frontmatter.Get(doc.Meta, "updated")

	description, comments := frontmatter.SplitBody(doc.Body)

	task := &domain.Task{
		ID:       id,
		Title:    frontmatter.StringValue(title),
		Body:     description,
		State:    cfg.ResolveStatus(frontmatter.StringValue(state)),
		Priority: frontmatter.StringValue(priority),
		Type:     frontmatter.StringValue(typ),
		Tags:     frontmatter.StringSeqValue(tags),
		Created:  parseTime(frontmatter.StringValue(created)),
		Updated:  parseTime(frontmatter.StringValue(updated)),
		Comments: comments,
	}
	if task.Priority == "" {
		task.Priority = domain.DefaultPriority
	} else {
		task.Priority = cfg.ResolvePriority(task.Priority)
	}
	if task.Type != "" {
		task.Type = cfg.ResolveType(task.Type)
	}

	if assignees, ok := frontmatter.Get(doc.Meta, "assignees"); ok {
		task.Assignees = frontmatter.StringSeqValue(assignees)
	}

	if gh, ok := frontmatter.Get(doc.Meta, "github"); ok && gh.Kind == yaml.MappingNode {
		remote := remoteDataFromNode(gh)
		if pc, ok := frontmatter.Get(doc.Meta, "push_changes"); ok {
			remote.PushChanges = frontmatter.BoolValue(pc)
		}
		if co, ok := frontmatter.Get(doc.Meta, "close_on_github"); ok {
			remote.CloseOnGithub = frontmatter.BoolValue(co)
		}
		task.Provider = remote
	} else {
		task.Provider = domain.FileData{}
	}

	return task, nil
}

func writeTaskFile(path string, t *domain.Task) error {
	meta := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	frontmatter.Set(meta, "title", frontmatter.Scalar(t.Title))
	frontmatter.Set(meta, "state", frontmatter.Scalar(t.State))
	frontmatter.Set(meta, "priority", frontmatter.Scalar(t.Priority))
	if t.Type != "" {
		frontmatter.Set(meta, "type", frontmatter.Scalar(t.Type))
	}
	if len(t.Tags) > 0 {
		frontmatter.Set(meta, "tags", frontmatter.StringSeq(t.Tags))
	}
	frontmatter.Set(meta, "created", frontmatter.Scalar(formatTime(t.Created)))
	frontmatter.Set(meta, "updated", frontmatter.Scalar(formatTime(t.Updated)))
	if r, ok := t.Remote(); ok {
		frontmatter.Set(meta, "github", remoteDataToNode(r))
		frontmatter.Set(meta, "push_changes", frontmatter.Bool(r.PushChanges))
		frontmatter.Set(meta, "close_on_github", frontmatter.Bool(r.CloseOnGithub))
	}
	if len(t.Assignees) > 0 {
		frontmatter.Set(meta, "assignees", frontmatter.StringSeq(t.Assignees))
	}

	body := frontmatter.RenderBody(t.Body, t.Comments)
	out, err := frontmatter.Encode(meta, body)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func remoteDataFromNode(n *yaml.Node) domain.RemoteData {
	get := func(key string) string {
		v, _ := frontmatter.Get(n, key)
		return frontmatter.StringValue(v)
	}
	number := 0
	if v, ok := frontmatter.Get(n, "issue_number"); ok {
		fmt.Sscanf(v.Value, "%d", &number)
	}
	source := domain.PriorityFromLabel
	if get("priority_source") == string(domain.PriorityFromField) {
		source = domain.PriorityFromField
	}
	syncedTags, _ := frontmatter.Get(n, "synced_tags")
	return domain.RemoteData{
		ProjectItemID:  get("project_item_id"),
		IssueNodeID:    get("issue_node_id"),
		Repository:     get("repository"),
		IssueNumber:    number,
		TypeLabel:      get("type_label"),
		PriorityLabel:  get("priority_label"),
		SyncedTags:     frontmatter.StringSeqValue(syncedTags),
		LastSynced:     parseTime(get("last_synced")),
		PrioritySource: source,
	}
}

func remoteDataToNode(r domain.RemoteData) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	frontmatter.Set(n, "project_item_id", frontmatter.Scalar(r.ProjectItemID))
	frontmatter.Set(n, "issue_node_id", frontmatter.Scalar(r.IssueNodeID))
	frontmatter.Set(n, "repository", frontmatter.Scalar(r.Repository))
	frontmatter.Set(n, "issue_number", frontmatter.Scalar(fmt.Sprintf("%d", r.IssueNumber)))
	if r.TypeLabel != "" {
		frontmatter.Set(n, "type_label", frontmatter.Scalar(r.TypeLabel))
	}
	if r.PriorityLabel != "" {
		frontmatter.Set(n, "priority_label", frontmatter.Scalar(r.PriorityLabel))
	}
	if len(r.SyncedTags) > 0 {
		frontmatter.Set(n, "synced_tags", frontmatter.StringSeq(r.SyncedTags))
	}
	frontmatter.Set(n, "last_synced", frontmatter.Scalar(formatTime(r.LastSynced)))
	frontmatter.Set(n, "priority_source", frontmatter.Scalar(string(r.PrioritySource)))
	return n
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05Z", s); err == nil {
		return t
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	// Spec §9: timestamps are written with an explicit "+00:00" offset,
	// not RFC3339's "Z" shorthand for UTC.
	return t.UTC().Format("2006-01-02T15:04:05+00:00")
}
