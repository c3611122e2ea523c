package remote

import (
	"fmt"
	"time"

	"github.com/shurcooL/githubv4"
)

// Item is one project item, generalized from the teacher's ProjectItem to
// cover issues, pull requests, and draft issues (§4.5's include_drafts /
// include_prs flags) instead of only issues.
type Item struct {
	ProjectItemID string
	Kind          string // "issue", "pull_request", "draft_issue"
	IssueNodeID   string // empty for drafts
	Repository    string // "owner/repo", empty for drafts
	Number        int    // 0 for drafts
	Title         string
	Body          string
	Closed        bool
	Labels        []string
	Assignees     []string
	Milestone     string
	UpdatedAt     time.Time

	StatusOptionID string
	StatusName     string
	PriorityValue  string // field value if a priority field is configured
}

// FetchItems lists every item in the project, paginating the way the
// teacher's ListProjectItems does, but including pull requests and draft
// issues when requested instead of skipping everything but Issue (§4.5).
func (c *Client) FetchItems(meta *ProjectMetadata, includeDrafts, includePRs, includeClosed bool) ([]Item, error) {
	var query struct {
		Node struct {
			ProjectV2 struct {
				Items struct {
					Nodes []itemNode
					PageInfo struct {
						HasNextPage githubv4.Boolean
						EndCursor   githubv4.String
					}
				} `graphql:"items(first: 100, after: $cursor)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $projectId)"`
	}

	var items []Item
	var cursor *githubv4.String
	for {
		variables := map[string]any{
			"projectId": githubv4.ID(meta.ProjectID),
			"cursor":    cursor,
		}
		if err := c.gql.Query(c.ctx, &query, variables); err != nil {
			return nil, fmt.Errorf("remote: fetch project items: %w", err)
		}

		for _, n := range query.Node.ProjectV2.Items.Nodes {
			item, ok := n.toItem(meta)
			if !ok {
				continue
			}
			if item.Kind == "pull_request" && !includePRs {
				continue
			}
			if item.Kind == "draft_issue" && !includeDrafts {
				continue
			}
			if item.Closed && !includeClosed {
				continue
			}
			items = append(items, item)
		}

		if !bool(query.Node.ProjectV2.Items.PageInfo.HasNextPage) {
			break
		}
		cursor = &query.Node.ProjectV2.Items.PageInfo.EndCursor
	}
	return items, nil
}

// itemNode is the raw GraphQL shape for one project item, with fragments
// for each content kind the teacher's query omitted (PullRequest,
// DraftIssue) alongside the Issue fragment it already had.
type itemNode struct {
	ID      githubv4.ID
	Content struct {
		Issue struct {
			Number    githubv4.Int
			Title     githubv4.String
			Body      githubv4.String
			State     githubv4.String
			UpdatedAt githubv4.DateTime
			Repository struct {
				NameWithOwner githubv4.String
			}
			Labels struct {
				Nodes []struct{ Name githubv4.String }
			} `graphql:"labels(first: 20)"`
			Assignees struct {
				Nodes []struct{ Login githubv4.String }
			} `graphql:"assignees(first: 10)"`
			Milestone struct {
				Title githubv4.String
			}
		} `graphql:"... on Issue"`
		PullRequest struct {
			Number    githubv4.Int
			Title     githubv4.String
			Body      githubv4.String
			State     githubv4.String
			UpdatedAt githubv4.DateTime
			Repository struct {
				NameWithOwner githubv4.String
			}
			Labels struct {
				Nodes []struct{ Name githubv4.String }
			} `graphql:"labels(first: 20)"`
		} `graphql:"... on PullRequest"`
		DraftIssue struct {
			Title githubv4.String
			Body  githubv4.String
		} `graphql:"... on DraftIssue"`
	}
	FieldValues struct {
		Nodes []struct {
			ProjectV2ItemFieldSingleSelectValue struct {
				Field struct {
					ProjectV2SingleSelectField struct {
						ID githubv4.ID
					} `graphql:"... on ProjectV2SingleSelectField"`
				}
				OptionID githubv4.ID
				Name     githubv4.String
			} `graphql:"... on ProjectV2ItemFieldSingleSelectValue"`
		}
	} `graphql:"fieldValues(first: 20)"`
}

func (n itemNode) toItem(meta *ProjectMetadata) (Item, bool) {
	item := Item{ProjectItemID: asString(n.ID)}

	switch {
	case n.Content.Issue.Number != 0:
		item.Kind = "issue"
		item.Number = int(n.Content.Issue.Number)
		item.Title = string(n.Content.Issue.Title)
		item.Body = string(n.Content.Issue.Body)
		item.Closed = string(n.Content.Issue.State) == "CLOSED"
		item.Repository = string(n.Content.Issue.Repository.NameWithOwner)
		item.UpdatedAt = n.Content.Issue.UpdatedAt.Time
		item.Milestone = string(n.Content.Issue.Milestone.Title)
		for _, l := range n.Content.Issue.Labels.Nodes {
			item.Labels = append(item.Labels, string(l.Name))
		}
		for _, a := range n.Content.Issue.Assignees.Nodes {
			item.Assignees = append(item.Assignees, string(a.Login))
		}
	case n.Content.PullRequest.Number != 0:
		item.Kind = "pull_request"
		item.Number = int(n.Content.PullRequest.Number)
		item.Title = string(n.Content.PullRequest.Title)
		item.Body = string(n.Content.PullRequest.Body)
		item.Closed = string(n.Content.PullRequest.State) != "OPEN"
		item.Repository = string(n.Content.PullRequest.Repository.NameWithOwner)
		item.UpdatedAt = n.Content.PullRequest.UpdatedAt.Time
		for _, l := range n.Content.PullRequest.Labels.Nodes {
			item.Labels = append(item.Labels, string(l.Name))
		}
	case n.Content.DraftIssue.Title != "":
		item.Kind = "draft_issue"
		item.Title = string(n.Content.DraftIssue.Title)
		item.Body = string(n.Content.DraftIssue.Body)
	default:
		return Item{}, false
	}

	for _, fv := range n.FieldValues.Nodes {
		fieldID := fv.ProjectV2ItemFieldSingleSelectValue.Field.ProjectV2SingleSelectField.ID
		if fieldID == nil {
			continue
		}
		switch asString(fieldID) {
		case meta.StatusField.ID:
			if fv.ProjectV2ItemFieldSingleSelectValue.OptionID != nil {
				item.StatusOptionID = asString(fv.ProjectV2ItemFieldSingleSelectValue.OptionID)
			}
			item.StatusName = string(fv.ProjectV2ItemFieldSingleSelectValue.Name)
		default:
			if meta.PriorityField != nil && asString(fieldID) == meta.PriorityField.ID {
				item.PriorityValue = string(fv.ProjectV2ItemFieldSingleSelectValue.Name)
			}
		}
	}

	return item, true
}
