// Package sync implements the Sync Engine (C8): pushing local-only tasks as
// new issues, pushing updates to already-synced tasks, pulling remote items
// to local files, and detecting the three-way change set (pull/push/
// conflict) between them. Grounded in
// original_source/.../sync/engine.py's GitHubSyncEngine, generalized from
// its single hard-coded "Status" field and GitHub-client-with-raw-dict
// queries to the typed internal/store/remote.Client and
// internal/config.BoardConfig this module already has.
package sync

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/boardsync/core/internal/clock"
	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/domain"
	"github.com/boardsync/core/internal/filter"
	"github.com/boardsync/core/internal/slug"
	"github.com/boardsync/core/internal/store/remote"
)

// LocalStore is the subset of the Filesystem Store the engine needs.
type LocalStore interface {
	GetAll() ([]*domain.Task, error)
	GetByID(id string) (*domain.Task, error)
	Save(task *domain.Task) (*domain.Task, error)
	Delete(id string) error
	Rename(oldID, newID string) error
	StampSync(id string, lastSynced time.Time, pushChanges bool) error
}

// RemoteClient is the subset of *remote.Client the engine needs. Declared
// here, rather than depended on directly, so tests can substitute a fake
// without standing up a GraphQL server.
type RemoteClient interface {
	Viewer() (string, error)
	FetchProjectMetadata(projectNumber int, statusFieldName, priorityFieldName string) (*remote.ProjectMetadata, error)
	FetchItems(meta *remote.ProjectMetadata, includeDrafts, includePRs, includeClosed bool) ([]remote.Item, error)
	FetchRepository(repo string) (*remote.RepositoryInfo, error)
	CreateIssue(repositoryID, title, body string, labelIDs []string) (nodeID string, number int, err error)
	UpdateIssue(issueNodeID string, title, body *string) error
	CloseIssue(issueNodeID string) error
	AddItemToProject(projectID, contentID string) (string, error)
	UpdateItemFieldOption(projectID, itemID, fieldID, optionID string) error
	UpdateItemPosition(projectID, itemID, afterID string) error
	AddLabels(labelableID string, labelIDs []string) error
	RemoveLabels(labelableID string, labelIDs []string) error
}

// Engine implements bidirectional sync between the Filesystem Store and a
// remote GitHub-Projects-v2-shaped backend. One Engine is built per run; its
// project-metadata, current-user, and per-repository label caches live only
// for that run (§5), mirroring the lazy-fetch-once fields the original
// Python GitHubSyncEngine keeps on self.
type Engine struct {
	cfg    *config.Config
	local  LocalStore
	remote RemoteClient
	clock  clock.Clock
	logger *slog.Logger

	projectNumber int
	ownerType     remote.OwnerType
	owner         string

	metaOnce sync.Once
	meta     *remote.ProjectMetadata
	metaErr  error

	userOnce sync.Once
	user     string
	userErr  error

	reposMu sync.Mutex
	repos   map[string]*remote.RepositoryInfo
}

// New builds an Engine over local and remote, scoped to cfg's board and
// remote settings. projectNumber/ownerType/owner identify the Projects-v2
// board the engine's project-metadata lookups target; a zero projectNumber
// disables project-field sync (issues are still created/updated, just never
// added to a project).
func New(cfg *config.Config, local LocalStore, rc RemoteClient, projectNumber int, ownerType remote.OwnerType, owner string, c clock.Clock, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:           cfg,
		local:         local,
		remote:        rc,
		clock:         c,
		logger:        logger,
		projectNumber: projectNumber,
		ownerType:     ownerType,
		owner:         owner,
		repos:         map[string]*remote.RepositoryInfo{},
	}
}

func (e *Engine) ensureMeta() (*remote.ProjectMetadata, error) {
	e.metaOnce.Do(func() {
		if e.projectNumber == 0 {
			e.metaErr = fmt.Errorf("sync: no project configured")
			return
		}
		e.meta, e.metaErr = e.remote.FetchProjectMetadata(e.projectNumber, "", e.cfg.Remote.PriorityField)
	})
	return e.meta, e.metaErr
}

func (e *Engine) ensureUser() (string, error) {
	e.userOnce.Do(func() {
		e.user, e.userErr = e.remote.Viewer()
	})
	return e.user, e.userErr
}

func (e *Engine) ensureRepo(repo string) (*remote.RepositoryInfo, error) {
	e.reposMu.Lock()
	defer e.reposMu.Unlock()
	if info, ok := e.repos[repo]; ok {
		return info, nil
	}
	info, err := e.remote.FetchRepository(repo)
	if err != nil {
		return nil, err
	}
	e.repos[repo] = info
	return info, nil
}

// --- Push: new issues (§4.7, "push_new_issues") ---

// FindLocalOnlyTasks returns every task that has never been synced: a plain
// (non github#number-shaped) filename carrying no RemoteData.
func (e *Engine) FindLocalOnlyTasks() ([]*domain.Task, error) {
	all, err := e.local.GetAll()
	if err != nil {
		return nil, err
	}
	var out []*domain.Task
	for _, t := range all {
		if slug.IsSyncedFilename(t.ID) {
			continue
		}
		if !slug.IsLocalOnlyFilename(t.ID) {
			continue
		}
		if t.IsRemote() {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// PushNewIssues creates a GitHub issue for each task, collecting per-task
// errors rather than aborting the batch (§7: partial failure still reports
// what succeeded).
func (e *Engine) PushNewIssues(tasks []*domain.Task, dryRun bool) *PushResult {
	result := &PushResult{DryRun: dryRun}

	repo := e.cfg.Remote.DefaultRepo
	if repo == "" {
		result.Errors = append(result.Errors, "default_repo is required in github config to push issues")
		return result
	}

	var meta *remote.ProjectMetadata
	if !dryRun {
		m, err := e.ensureMeta()
		if err != nil {
			e.logger.Warn("failed to fetch project metadata, creating issues without project status", "error", err)
		} else {
			meta = m
		}
	}

	for _, t := range tasks {
		if dryRun {
			issueID := fmt.Sprintf("%s#(new)", repo)
			result.Created = append(result.Created, fmt.Sprintf("%s - %s", issueID, t.Title))
			result.Items = append(result.Items, PushedItem{Task: t, IssueID: issueID})
			continue
		}

		issueID, err := e.createIssue(t, repo, meta)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to push %q: %s", t.ID, err))
			continue
		}
		result.Created = append(result.Created, issueID)
		result.Items = append(result.Items, PushedItem{Task: t, IssueID: issueID})
	}

	return result
}

func (e *Engine) createIssue(t *domain.Task, repo string, meta *remote.ProjectMetadata) (string, error) {
	repoInfo, err := e.ensureRepo(repo)
	if err != nil {
		return "", fmt.Errorf("fetch repository %s: %w", repo, err)
	}

	nodeID, number, err := e.remote.CreateIssue(repoInfo.ID, t.Title, t.Body, nil)
	if err != nil {
		return "", fmt.Errorf("create issue: %w", err)
	}
	issueID := fmt.Sprintf("%s#%d", repo, number)

	if meta != nil {
		itemID, err := e.remote.AddItemToProject(meta.ProjectID, nodeID)
		if err != nil {
			e.logger.Warn("created issue but failed to add it to the project", "issue", issueID, "error", err)
		} else {
			e.applyStatusAndPriority(meta, itemID, t)
		}
	}

	labels := e.computeCreateLabels(t)
	if len(labels) > 0 {
		ids := remote.ResolveLabelIDs(repoInfo, labels)
		if len(ids) < len(labels) {
			e.logger.Warn("some labels do not exist in the repository and were skipped", "repository", repo, "wanted", labels)
		}
		if len(ids) > 0 {
			if err := e.remote.AddLabels(nodeID, ids); err != nil {
				e.logger.Warn("created issue but failed to attach labels", "issue", issueID, "error", err)
			}
		}
	}

	return issueID, nil
}

func (e *Engine) applyStatusAndPriority(meta *remote.ProjectMetadata, projectItemID string, t *domain.Task) {
	if optionID, ok := remote.ColumnToOption(meta.StatusField, t.State); ok {
		if err := e.remote.UpdateItemFieldOption(meta.ProjectID, projectItemID, meta.StatusField.ID, optionID); err != nil {
			e.logger.Warn("failed to set status field", "error", err)
		}
	}
	if meta.PriorityField != nil {
		rank := e.cfg.Board.GetPriorityRank(t.Priority)
		if optionID, ok := remote.PriorityFieldOptionForRank(*meta.PriorityField, rank); ok {
			if err := e.remote.UpdateItemFieldOption(meta.ProjectID, projectItemID, meta.PriorityField.ID, optionID); err != nil {
				e.logger.Warn("failed to set priority field", "error", err)
			}
		}
	}
}

func (e *Engine) hasPriorityField() bool {
	meta, err := e.ensureMeta()
	return err == nil && meta.PriorityField != nil
}

// computeCreateLabels builds the label set to attach on issue creation: the
// type's write alias, a "priority:" label only when no priority field is
// configured (the field already carries priority, so no redundant label is
// added), plus the task's plain tags.
func (e *Engine) computeCreateLabels(t *domain.Task) []string {
	var labels []string
	if t.Type != "" {
		if typ, ok := e.cfg.Board.GetType(t.Type); ok {
			labels = append(labels, typ.WriteAlias())
		}
	}
	if !e.hasPriorityField() {
		if p, ok := e.cfg.Board.GetPriority(t.Priority); ok {
			labels = append(labels, "priority:"+p.WriteAlias())
		}
	}
	labels = append(labels, t.Tags...)
	return labels
}

// HandlePushedFile applies the post-push disposition to a task's local file
// once its issue has been created: delete it, archive it in place, or rename
// it to the synced filename format.
func (e *Engine) HandlePushedFile(task *domain.Task, issueID string, action PostPushAction) error {
	switch action {
	case ActionDelete:
		return e.local.Delete(task.ID)

	case ActionArchive:
		archived := task.Clone()
		archived.State = domain.StateArchived
		archived.Updated = e.clock.Now()
		_, err := e.local.Save(archived)
		return err

	case ActionRename:
		owner, repoName, number, err := parseIssueID(issueID)
		if err != nil {
			return err
		}
		newID := slug.GenerateSyncedFilename(owner, repoName, number, task.Title)
		return e.local.Rename(task.ID, newID)

	case ActionKeep:
		return nil

	default:
		return fmt.Errorf("sync: unknown post-push action %q", action)
	}
}

func parseIssueID(issueID string) (owner, repo string, number int, err error) {
	idx := strings.LastIndex(issueID, "#")
	if idx < 0 {
		return "", "", 0, fmt.Errorf("sync: malformed issue id %q", issueID)
	}
	repoPart, numberPart := issueID[:idx], issueID[idx+1:]
	owner, repo, ok := strings.Cut(repoPart, "/")
	if !ok {
		return "", "", 0, fmt.Errorf("sync: malformed issue id %q", issueID)
	}
	if _, err := fmt.Sscanf(numberPart, "%d", &number); err != nil {
		return "", "", 0, fmt.Errorf("sync: malformed issue number in %q", issueID)
	}
	return owner, repo, number, nil
}

// --- Push: updates to already-synced tasks (§4.7.3) ---

// PushUpdates pushes title/body/status edits for already-synced tasks to
// their issues, then stamps only github.last_synced and push_changes on
// success — never the whole document (§4.7.3's minimal-touch rule).
func (e *Engine) PushUpdates(tasks []*domain.Task, dryRun bool) *PushResult {
	result := &PushResult{DryRun: dryRun}

	var meta *remote.ProjectMetadata
	var metaErr error
	if !dryRun {
		meta, metaErr = e.ensureMeta()
	}

	for _, t := range tasks {
		r, ok := t.Remote()
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: no github metadata found", t.ID))
			continue
		}
		issueID := r.ID()

		if dryRun {
			result.Created = append(result.Created, fmt.Sprintf("%s - %s (update)", issueID, t.Title))
			result.Items = append(result.Items, PushedItem{Task: t, IssueID: issueID})
			continue
		}

		if err := e.updateIssue(t, r, meta, metaErr); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to update %s: %s", issueID, err))
			continue
		}

		now := e.clock.Now()
		if err := e.local.StampSync(t.ID, now, false); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("updated %s but failed to stamp sync metadata: %s", issueID, err))
			continue
		}

		result.Created = append(result.Created, issueID)
		result.Items = append(result.Items, PushedItem{Task: t, IssueID: issueID})
	}

	return result
}

func (e *Engine) updateIssue(t *domain.Task, r domain.RemoteData, meta *remote.ProjectMetadata, metaErr error) error {
	if r.IssueNodeID == "" {
		return fmt.Errorf("missing issue_node_id in github metadata")
	}
	title, body := t.Title, t.Body
	if err := e.remote.UpdateIssue(r.IssueNodeID, &title, &body); err != nil {
		return fmt.Errorf("update issue: %w", err)
	}

	if metaErr == nil && meta != nil && r.ProjectItemID != "" {
		e.applyStatusAndPriority(meta, r.ProjectItemID, t)
	}

	diff := remote.ComputeLabelDiff(e.cfg.Board, r.TypeLabel, r.PriorityLabel, r.SyncedTags, t.Type, t.Priority, t.Tags, r.PrioritySource)
	if len(diff.Add) > 0 || len(diff.Remove) > 0 {
		repoInfo, err := e.ensureRepo(r.Repository)
		if err == nil {
			if ids := remote.ResolveLabelIDs(repoInfo, diff.Remove); len(ids) > 0 {
				if err := e.remote.RemoveLabels(r.IssueNodeID, ids); err != nil {
					e.logger.Warn("failed to remove labels", "issue", r.ID(), "error", err)
				}
			}
			if ids := remote.ResolveLabelIDs(repoInfo, diff.Add); len(ids) > 0 {
				if err := e.remote.AddLabels(r.IssueNodeID, ids); err != nil {
					e.logger.Warn("failed to add labels", "issue", r.ID(), "error", err)
				}
			}
		}
	}

	return nil
}

// --- Pull (§4.7.2) ---

// fetchFilteredItems fetches every project item and applies the configured
// sync filters (OR'd across the list). With no filters configured, every
// fetched item is returned.
func (e *Engine) fetchFilteredItems() ([]remote.Item, string, error) {
	meta, err := e.ensureMeta()
	if err != nil {
		return nil, "", err
	}
	user, err := e.ensureUser()
	if err != nil {
		return nil, "", err
	}

	includeDrafts, includePRs, includeClosed := false, false, false
	if e.cfg.Remote != nil {
		includeDrafts, includePRs, includeClosed = e.cfg.Remote.IncludeDrafts, e.cfg.Remote.IncludePRs, e.cfg.Remote.IncludeClosed
	}
	items, err := e.remote.FetchItems(meta, includeDrafts, includePRs, includeClosed)
	if err != nil {
		return nil, "", err
	}

	var filterExprs []string
	if e.cfg.Remote != nil && e.cfg.Remote.Sync != nil {
		filterExprs = e.cfg.Remote.Sync.Filters
	}
	if len(filterExprs) == 0 {
		return items, user, nil
	}
	parsed, err := filter.ParseAll(filterExprs)
	if err != nil {
		return nil, "", err
	}

	var out []remote.Item
	for _, it := range items {
		if filter.MatchesAny(parsed, itemToFilterItem(it, e.cfg.Board), user) {
			out = append(out, it)
		}
	}
	return out, user, nil
}

func itemToFilterItem(it remote.Item, board config.BoardConfig) filter.Item {
	return filter.Item{
		Assignees:  it.Assignees,
		Labels:     it.Labels,
		Milestone:  it.Milestone,
		Closed:     it.Closed,
		Repository: it.Repository,
		Priority:   filter.ItemPriority(it.PriorityValue, it.Labels, board),
	}
}

func issueKey(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

// scanSyncedTasks returns every task already backed by RemoteData, keyed by
// its "owner/repo#number" issue key.
func (e *Engine) scanSyncedTasks() (map[string]*domain.Task, error) {
	all, err := e.local.GetAll()
	if err != nil {
		return nil, err
	}
	out := map[string]*domain.Task{}
	for _, t := range all {
		r, ok := t.Remote()
		if !ok {
			continue
		}
		out[r.ID()] = t
	}
	return out, nil
}

// SyncFromGitHub pulls every filtered remote item to a local file, skipping
// items in conflict unless force is set (§4.7.1).
func (e *Engine) SyncFromGitHub(dryRun, force bool) *SyncResult {
	result := &SyncResult{DryRun: dryRun}

	if e.cfg.Remote == nil || e.cfg.Remote.Sync == nil || !e.cfg.Remote.Sync.Enabled {
		result.Errors = append(result.Errors, "github sync is not enabled (github.sync.enabled: false)")
		return result
	}

	items, _, err := e.fetchFilteredItems()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("sync failed: %s", err))
		return result
	}

	existingByKey, err := e.scanSyncedTasks()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("sync failed: %s", err))
		return result
	}

	for _, item := range items {
		if item.Repository == "" {
			continue // draft issue: has no stable issue key to pull into a file
		}
		key := issueKey(item.Repository, item.Number)
		existing := existingByKey[key]

		if existing != nil && !force {
			if conflict := e.checkConflict(existing, item); conflict != nil {
				result.Conflicts++
				e.logger.Warn("skipping conflict, use --force to overwrite", "task", existing.ID)
				continue
			}
		}

		if dryRun {
			result.Pulled++
			continue
		}

		if _, err := e.writeItemToFile(item, existing); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to sync %s: %s", key, err))
			continue
		}
		result.Pulled++
	}

	return result
}

func (e *Engine) checkConflict(local *domain.Task, item remote.Item) *Conflict {
	r, ok := local.Remote()
	if !ok || r.LastSynced.IsZero() {
		return nil
	}
	localChanged := local.Updated.After(r.LastSynced)
	remoteChanged := item.UpdatedAt.After(r.LastSynced)
	if localChanged && remoteChanged {
		return &Conflict{
			TaskID:        local.ID,
			IssueNumber:   r.IssueNumber,
			Repository:    r.Repository,
			LocalUpdated:  local.Updated,
			RemoteUpdated: item.UpdatedAt,
			LastSynced:    r.LastSynced,
		}
	}
	return nil
}

// writeItemToFile projects a remote item onto a domain.Task and saves it,
// reusing existing's filename (and hence its board-order slot) when
// provided, or minting a fresh synced filename for a brand-new pull.
func (e *Engine) writeItemToFile(item remote.Item, existing *domain.Task) (*domain.Task, error) {
	board := e.cfg.Board
	priorityField := ""
	if e.cfg.Remote != nil {
		priorityField = e.cfg.Remote.PriorityField
	}

	task := &domain.Task{
		Title:   item.Title,
		Body:    item.Body,
		State:   remote.StatusToColumn(item.StatusName),
		Created: item.UpdatedAt,
		Updated: item.UpdatedAt,
	}
	if existing != nil {
		task.ID = existing.ID
		task.Created = existing.Created
		task.Comments = existing.Comments
	}

	typeLabel := ""
	task.Type = remote.ResolveTypeFromLabels(item.Labels, board)
	for _, l := range item.Labels {
		if board.IsValidType(l) {
			typeLabel = l
			break
		}
	}

	prioritySource := domain.PriorityFromLabel
	priorityLabel := ""
	if priorityField != "" && item.PriorityValue != "" {
		if meta, err := e.ensureMeta(); err == nil && meta.PriorityField != nil {
			task.Priority = remote.ResolvePriorityFromField(*meta.PriorityField, item.PriorityValue, board)
			prioritySource = domain.PriorityFromField
		}
	}
	if task.Priority == "" {
		task.Priority = remote.ResolvePriorityFromLabels(item.Labels, board)
		prioritySource = domain.PriorityFromLabel
		for _, l := range item.Labels {
			if strings.HasPrefix(l, "priority:") {
				priorityLabel = l
				break
			}
		}
		for _, l := range item.Labels {
			if priorityLabel == "" && board.IsValidPriority(l) {
				priorityLabel = l
				break
			}
		}
	}

	var tags []string
	for _, l := range item.Labels {
		if l == typeLabel || l == priorityLabel {
			continue
		}
		tags = append(tags, l)
	}
	task.Tags = tags
	task.Assignees = item.Assignees

	task.Provider = domain.RemoteData{
		ProjectItemID:  item.ProjectItemID,
		IssueNodeID:    item.IssueNodeID,
		Repository:     item.Repository,
		IssueNumber:    item.Number,
		TypeLabel:      typeLabel,
		PriorityLabel:  priorityLabel,
		SyncedTags:     tags,
		LastSynced:     e.clock.Now(),
		PrioritySource: prioritySource,
	}

	return e.local.Save(task)
}

// --- Change detection (§4.7, testable property #6) ---

// DetectChanges compares synced local files against filtered remote items,
// producing three disjoint lists: nothing appears in more than one.
func (e *Engine) DetectChanges() *ChangeSet {
	changes := &ChangeSet{}

	if e.cfg.Remote == nil || e.cfg.Remote.Sync == nil || !e.cfg.Remote.Sync.Enabled {
		return changes
	}

	items, _, err := e.fetchFilteredItems()
	if err != nil {
		e.logger.Error("failed to detect changes", "error", err)
		return changes
	}
	existingByKey, err := e.scanSyncedTasks()
	if err != nil {
		e.logger.Error("failed to detect changes", "error", err)
		return changes
	}

	remoteByKey := map[string]remote.Item{}
	for _, it := range items {
		if it.Repository == "" {
			continue
		}
		remoteByKey[issueKey(it.Repository, it.Number)] = it
	}

	for key, local := range existingByKey {
		item, ok := remoteByKey[key]
		if !ok {
			continue // removed from GitHub or filtered out: handled elsewhere
		}
		r, ok := local.Remote()
		if !ok {
			continue
		}
		if r.LastSynced.IsZero() {
			changes.ToPull = append(changes.ToPull, local.ID)
			continue
		}

		localChanged := local.Updated.After(r.LastSynced)
		remoteChanged := item.UpdatedAt.After(r.LastSynced)

		switch {
		case localChanged && remoteChanged:
			changes.Conflicts = append(changes.Conflicts, Conflict{
				TaskID:        local.ID,
				IssueNumber:   r.IssueNumber,
				Repository:    r.Repository,
				LocalUpdated:  local.Updated,
				RemoteUpdated: item.UpdatedAt,
				LastSynced:    r.LastSynced,
			})
		case localChanged:
			if r.PushChanges {
				changes.ToPush = append(changes.ToPush, local.ID)
			}
		case remoteChanged:
			changes.ToPull = append(changes.ToPull, local.ID)
		}
	}

	for key := range remoteByKey {
		if _, ok := existingByKey[key]; !ok {
			changes.ToPull = append(changes.ToPull, key)
		}
	}

	localOnly, err := e.FindLocalOnlyTasks()
	if err == nil {
		for _, t := range localOnly {
			changes.ToPush = append(changes.ToPush, t.ID)
		}
	}

	return changes
}
