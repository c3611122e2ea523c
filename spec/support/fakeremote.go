// Package support also provides a fake remote.Client stand-in: an
// in-memory implementation of sync.RemoteClient. Generalized from the
// teacher's spec/support/mockgithub.go REST mock into something shaped for
// a GraphQL/Projects-v2 backend, so scenarios exercise the real sync
// engine against canned data instead of a mocked HTTP transport.
package support

import (
	"fmt"

	"github.com/boardsync/core/internal/store/remote"
)

// FakeRemote is a scenario-scoped double for sync.RemoteClient. Tests seed
// its fields directly rather than going through constructor methods; it
// has no network behavior to simulate.
type FakeRemote struct {
	ViewerLogin string
	Meta        *remote.ProjectMetadata
	Items       []remote.Item
	Repos       map[string]*remote.RepositoryInfo

	NextIssueNodeID string
	NextIssueNumber int

	CreatedIssues []CreatedIssue
	UpdatedIssues []UpdatedIssue
	ClosedIssues  []string
	AddedItems    []string
	FieldUpdates  []FieldUpdate
	PositionMoves []PositionMove
	LabelsAdded   map[string][]string
	LabelsRemoved map[string][]string
}

type CreatedIssue struct {
	RepositoryID string
	Title        string
	Body         string
	LabelIDs     []string
}

type UpdatedIssue struct {
	IssueNodeID string
	Title       *string
	Body        *string
}

type FieldUpdate struct {
	ProjectID, ItemID, FieldID, OptionID string
}

type PositionMove struct {
	ProjectID, ItemID, AfterID string
}

// NewFakeRemote returns a FakeRemote with its maps initialized.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		Repos:         map[string]*remote.RepositoryInfo{},
		LabelsAdded:   map[string][]string{},
		LabelsRemoved: map[string][]string{},
	}
}

func (f *FakeRemote) Viewer() (string, error) {
	if f.ViewerLogin == "" {
		return "", fmt.Errorf("fake remote: no viewer configured")
	}
	return f.ViewerLogin, nil
}

func (f *FakeRemote) FetchProjectMetadata(projectNumber int, statusFieldName, priorityFieldName string) (*remote.ProjectMetadata, error) {
	if f.Meta == nil {
		return nil, fmt.Errorf("fake remote: no project metadata configured")
	}
	return f.Meta, nil
}

func (f *FakeRemote) FetchItems(meta *remote.ProjectMetadata, includeDrafts, includePRs, includeClosed bool) ([]remote.Item, error) {
	var out []remote.Item
	for _, it := range f.Items {
		if it.Kind == "pull_request" && !includePRs {
			continue
		}
		if it.Kind == "draft_issue" && !includeDrafts {
			continue
		}
		if it.Closed && !includeClosed {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (f *FakeRemote) FetchRepository(repo string) (*remote.RepositoryInfo, error) {
	if info, ok := f.Repos[repo]; ok {
		return info, nil
	}
	return nil, fmt.Errorf("fake remote: repository %q not configured", repo)
}

func (f *FakeRemote) CreateIssue(repositoryID, title, body string, labelIDs []string) (string, int, error) {
	f.CreatedIssues = append(f.CreatedIssues, CreatedIssue{RepositoryID: repositoryID, Title: title, Body: body, LabelIDs: labelIDs})
	nodeID := f.NextIssueNodeID
	if nodeID == "" {
		nodeID = fmt.Sprintf("issue-node-%d", len(f.CreatedIssues))
	}
	number := f.NextIssueNumber
	if number == 0 {
		number = len(f.CreatedIssues)
	}
	return nodeID, number, nil
}

func (f *FakeRemote) UpdateIssue(issueNodeID string, title, body *string) error {
	f.UpdatedIssues = append(f.UpdatedIssues, UpdatedIssue{IssueNodeID: issueNodeID, Title: title, Body: body})
	return nil
}

func (f *FakeRemote) CloseIssue(issueNodeID string) error {
	f.ClosedIssues = append(f.ClosedIssues, issueNodeID)
	return nil
}

func (f *FakeRemote) AddItemToProject(projectID, contentID string) (string, error) {
	f.AddedItems = append(f.AddedItems, contentID)
	return "project-item-" + contentID, nil
}

func (f *FakeRemote) UpdateItemFieldOption(projectID, itemID, fieldID, optionID string) error {
	f.FieldUpdates = append(f.FieldUpdates, FieldUpdate{ProjectID: projectID, ItemID: itemID, FieldID: fieldID, OptionID: optionID})
	return nil
}

func (f *FakeRemote) UpdateItemPosition(projectID, itemID, afterID string) error {
	f.PositionMoves = append(f.PositionMoves, PositionMove{ProjectID: projectID, ItemID: itemID, AfterID: afterID})
	return nil
}

func (f *FakeRemote) AddLabels(labelableID string, labelIDs []string) error {
	f.LabelsAdded[labelableID] = append(f.LabelsAdded[labelableID], labelIDs...)
	return nil
}

func (f *FakeRemote) RemoveLabels(labelableID string, labelIDs []string) error {
	f.LabelsRemoved[labelableID] = append(f.LabelsRemoved[labelableID], labelIDs...)
	return nil
}
