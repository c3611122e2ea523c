// Package remote implements the Remote Store (C6): a GitHub-Projects-v2-
// shaped backend reached exclusively over GraphQL. Grounded in the
// teacher's internal/github/projects.go (ProjectsClient, its query shapes,
// and its oauth2-over-githubv4 wiring), generalized from a single
// hard-coded "Status" field to any configured field and from the teacher's
// issues-only listing to issues/PRs/drafts per §4.5. The teacher's REST
// client (github.go, google/go-github) and its heuristic status-name
// tables (MapStatusToOptionID/MapOptionToStatus) are replaced, not kept:
// this store is GraphQL-only and maps status via slug.SlugifyColumnID
// (§4.5.2), a deterministic function instead of a hand-maintained table.
package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// OwnerType distinguishes a user project from an org project, since the
// GraphQL root query differs ("user(login:)" vs "organization(login:)").
type OwnerType string

const (
	OwnerUser OwnerType = "user"
	OwnerOrg  OwnerType = "org"
)

// Client wraps a githubv4 client with the project coordinates it operates
// against. ctx is stored rather than threaded through every call, matching
// the teacher's ProjectsClient.
type Client struct {
	gql   *githubv4.Client
	ctx   context.Context
	Owner string
	Type  OwnerType
	// DefaultRepo is "owner/repo", used when an operation needs a
	// repository and the task doesn't already carry one.
	DefaultRepo string
}

// NewClient builds a GraphQL client authenticated with token. baseURL, if
// non-empty, targets a GitHub Enterprise GraphQL endpoint instead of the
// public API, mirroring the teacher's NewProjectsClient apiURL parameter.
func NewClient(ctx context.Context, token string, ownerType OwnerType, owner, defaultRepo, baseURL string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("remote: an access token is required")
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, src)

	var gql *githubv4.Client
	if baseURL != "" {
		url := strings.TrimSuffix(baseURL, "/") + "/graphql"
		gql = githubv4.NewEnterpriseClient(url, httpClient)
	} else {
		gql = githubv4.NewClient(httpClient)
	}

	return &Client{gql: gql, ctx: ctx, Owner: owner, Type: ownerType, DefaultRepo: defaultRepo}, nil
}

func (c *Client) splitRepo(repo string) (owner, name string) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 {
		return c.Owner, repo
	}
	return parts[0], parts[1]
}

// Viewer returns the authenticated user's login, used to resolve "@me" in
// filter expressions.
func (c *Client) Viewer() (string, error) {
	var query struct {
		Viewer struct {
			Login githubv4.String
		}
	}
	if err := c.gql.Query(c.ctx, &query, nil); err != nil {
		return "", fmt.Errorf("remote: fetch viewer: %w", err)
	}
	return string(query.Viewer.Login), nil
}
