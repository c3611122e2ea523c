package remote

import (
	"fmt"

	"github.com/shurcooL/githubv4"
)

// RepositoryInfo is the small set of repository facts a sync needs:
// its node id (for CreateIssueInput) and a name->node-id map of its
// labels, cached by the sync engine across one run (§4.5.1).
type RepositoryInfo struct {
	ID     string
	Labels map[string]string
}

// FetchRepository resolves a repository's node id and its full label set,
// generalizing the teacher's GetIssueNodeID query (which only fetched a
// single issue's id) to also pull labels in one round trip.
func (c *Client) FetchRepository(repo string) (*RepositoryInfo, error) {
	owner, name := c.splitRepo(repo)

	var cursor *githubv4.String
	info := &RepositoryInfo{Labels: map[string]string{}}
	first := true

	for {
		var query struct {
			Repository struct {
				ID     githubv4.ID
				Labels struct {
					Nodes []struct {
						ID   githubv4.ID
						Name githubv4.String
					}
					PageInfo struct {
						HasNextPage githubv4.Boolean
						EndCursor   githubv4.String
					}
				} `graphql:"labels(first: 100, after: $cursor)"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		variables := map[string]any{
			"owner":  githubv4.String(owner),
			"name":   githubv4.String(name),
			"cursor": cursor,
		}
		if err := c.gql.Query(c.ctx, &query, variables); err != nil {
			return nil, fmt.Errorf("remote: fetch repository %s: %w", repo, err)
		}
		if first {
			info.ID = asString(query.Repository.ID)
			first = false
		}
		for _, l := range query.Repository.Labels.Nodes {
			info.Labels[string(l.Name)] = asString(l.ID)
		}
		if !bool(query.Repository.Labels.PageInfo.HasNextPage) {
			break
		}
		cursor = &query.Repository.Labels.PageInfo.EndCursor
	}
	return info, nil
}

// CreateIssue opens a new issue in repo and returns its node id and number.
func (c *Client) CreateIssue(repositoryID, title, body string, labelIDs []string) (nodeID string, number int, err error) {
	var mutation struct {
		CreateIssue struct {
			Issue struct {
				ID     githubv4.ID
				Number githubv4.Int
			}
		} `graphql:"createIssue(input: $input)"`
	}
	input := githubv4.CreateIssueInput{
		RepositoryID: githubv4.ID(repositoryID),
		Title:        githubv4.String(title),
		Body:         githubv4.NewString(githubv4.String(body)),
	}
	if len(labelIDs) > 0 {
		ids := make([]githubv4.ID, len(labelIDs))
		for i, id := range labelIDs {
			ids[i] = githubv4.ID(id)
		}
		input.LabelIDs = &ids
	}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return "", 0, fmt.Errorf("remote: create issue: %w", err)
	}
	return asString(mutation.CreateIssue.Issue.ID), int(mutation.CreateIssue.Issue.Number), nil
}

// UpdateIssue edits an existing issue's title and/or body.
func (c *Client) UpdateIssue(issueNodeID string, title, body *string) error {
	var mutation struct {
		UpdateIssue struct {
			Issue struct {
				ID githubv4.ID
			}
		} `graphql:"updateIssue(input: $input)"`
	}
	input := githubv4.UpdateIssueInput{ID: githubv4.ID(issueNodeID)}
	if title != nil {
		t := githubv4.String(*title)
		input.Title = &t
	}
	if body != nil {
		b := githubv4.String(*body)
		input.Body = &b
	}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("remote: update issue: %w", err)
	}
	return nil
}

// CloseIssue closes an issue. Closing an already-closed issue is tolerated.
// No sync path calls it: the "delete" post-push disposition only removes
// the local file.
func (c *Client) CloseIssue(issueNodeID string) error {
	var mutation struct {
		CloseIssue struct {
			Issue struct {
				ID githubv4.ID
			}
		} `graphql:"closeIssue(input: $input)"`
	}
	input := githubv4.CloseIssueInput{IssueID: githubv4.ID(issueNodeID)}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("remote: close issue: %w", err)
	}
	return nil
}

// AddItemToProject adds an existing issue/PR to the project and returns
// the new project item id, mirroring the teacher's AddIssueToProject.
func (c *Client) AddItemToProject(projectID, contentID string) (string, error) {
	var mutation struct {
		AddProjectV2ItemById struct {
			Item struct {
				ID githubv4.ID
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentID),
	}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return "", fmt.Errorf("remote: add item to project: %w", err)
	}
	return asString(mutation.AddProjectV2ItemById.Item.ID), nil
}

// UpdateItemFieldOption sets a single-select field (status or priority) on
// a project item to optionID.
func (c *Client) UpdateItemFieldOption(projectID, itemID, fieldID, optionID string) error {
	var mutation struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID githubv4.ID
			}
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
		Value: githubv4.ProjectV2FieldValue{
			SingleSelectOptionID: githubv4.NewString(githubv4.String(optionID)),
		},
	}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("remote: update item field: %w", err)
	}
	return nil
}

// UpdateItemPosition moves itemID to immediately after afterID within the
// project (afterID == "" moves it to the top). This is the remote store's
// arbitrary-position reorder (§4.5), distinct from the board service's
// delta-based adjacent swap (§4.8).
func (c *Client) UpdateItemPosition(projectID, itemID, afterID string) error {
	var mutation struct {
		UpdateProjectV2ItemPosition struct {
			ProjectV2 struct {
				ID githubv4.ID
			}
		} `graphql:"updateProjectV2ItemPosition(input: $input)"`
	}
	input := githubv4.UpdateProjectV2ItemPositionInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
	}
	if afterID != "" {
		input.AfterID = githubv4.NewID(githubv4.ID(afterID))
	}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("remote: update item position: %w", err)
	}
	return nil
}

// AddLabels attaches labelIDs to labelableID (an issue or PR node id).
func (c *Client) AddLabels(labelableID string, labelIDs []string) error {
	if len(labelIDs) == 0 {
		return nil
	}
	var mutation struct {
		AddLabelsToLabelable struct {
			ClientMutationID githubv4.String
		} `graphql:"addLabelsToLabelable(input: $input)"`
	}
	ids := make([]githubv4.ID, len(labelIDs))
	for i, id := range labelIDs {
		ids[i] = githubv4.ID(id)
	}
	input := githubv4.AddLabelsToLabelableInput{
		LabelableID: githubv4.ID(labelableID),
		LabelIDs:    ids,
	}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("remote: add labels: %w", err)
	}
	return nil
}

// RemoveLabels detaches labelIDs from labelableID.
func (c *Client) RemoveLabels(labelableID string, labelIDs []string) error {
	if len(labelIDs) == 0 {
		return nil
	}
	var mutation struct {
		RemoveLabelsFromLabelable struct {
			ClientMutationID githubv4.String
		} `graphql:"removeLabelsFromLabelable(input: $input)"`
	}
	ids := make([]githubv4.ID, len(labelIDs))
	for i, id := range labelIDs {
		ids[i] = githubv4.ID(id)
	}
	input := githubv4.RemoveLabelsFromLabelableInput{
		LabelableID: githubv4.ID(labelableID),
		LabelIDs:    ids,
	}
	if err := c.gql.Mutate(c.ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("remote: remove labels: %w", err)
	}
	return nil
}
