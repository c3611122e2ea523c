package remote

import (
	"fmt"

	"github.com/shurcooL/githubv4"
)

// FieldOption is one option of a single-select project field.
type FieldOption struct {
	ID   string
	Name string
}

// Field is a single-select project field (Status, Priority, ...).
type Field struct {
	ID      string
	Name    string
	Options []FieldOption
}

// ProjectMetadata is the set of project-level facts the sync engine caches
// for the lifetime of one run, mirroring the teacher's per-call
// GetProjectID/GetStatusField but fetched together and reused (§5: the
// sync engine memoizes this once via sync.Once instead of the teacher's
// refetch-every-call pattern).
type ProjectMetadata struct {
	ProjectID     string
	StatusField   Field
	PriorityField *Field // nil if no priority field is configured
}

// FetchProjectMetadata resolves the project node ID, its status field, and
// (if priorityFieldName is non-empty) its priority field, generalizing the
// teacher's hard-coded "Status" field name to any configured field.
func (c *Client) FetchProjectMetadata(projectNumber int, statusFieldName, priorityFieldName string) (*ProjectMetadata, error) {
	projectID, err := c.projectID(projectNumber)
	if err != nil {
		return nil, err
	}

	fields, err := c.listFields(projectID)
	if err != nil {
		return nil, err
	}

	if statusFieldName == "" {
		statusFieldName = "Status"
	}
	status, ok := findField(fields, statusFieldName)
	if !ok {
		return nil, fmt.Errorf("remote: status field %q not found in project", statusFieldName)
	}

	meta := &ProjectMetadata{ProjectID: projectID, StatusField: status}
	if priorityFieldName != "" {
		if p, ok := findField(fields, priorityFieldName); ok {
			meta.PriorityField = &p
		}
	}
	return meta, nil
}

func findField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (c *Client) projectID(number int) (string, error) {
	switch c.Type {
	case OwnerOrg:
		var query struct {
			Organization struct {
				ProjectV2 struct {
					ID githubv4.ID
				} `graphql:"projectV2(number: $number)"`
			} `graphql:"organization(login: $login)"`
		}
		variables := map[string]any{
			"login":  githubv4.String(c.Owner),
			"number": githubv4.Int(number),
		}
		if err := c.gql.Query(c.ctx, &query, variables); err != nil {
			return "", fmt.Errorf("remote: fetch org project id: %w", err)
		}
		return asString(query.Organization.ProjectV2.ID), nil
	default:
		var query struct {
			User struct {
				ProjectV2 struct {
					ID githubv4.ID
				} `graphql:"projectV2(number: $number)"`
			} `graphql:"user(login: $login)"`
		}
		variables := map[string]any{
			"login":  githubv4.String(c.Owner),
			"number": githubv4.Int(number),
		}
		if err := c.gql.Query(c.ctx, &query, variables); err != nil {
			return "", fmt.Errorf("remote: fetch user project id: %w", err)
		}
		return asString(query.User.ProjectV2.ID), nil
	}
}

func (c *Client) listFields(projectID string) ([]Field, error) {
	var query struct {
		Node struct {
			ProjectV2 struct {
				Fields struct {
					Nodes []struct {
						ProjectV2SingleSelectField struct {
							ID      githubv4.ID
							Name    githubv4.String
							Options []struct {
								ID   githubv4.ID
								Name githubv4.String
							}
						} `graphql:"... on ProjectV2SingleSelectField"`
					}
				} `graphql:"fields(first: 50)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $projectId)"`
	}
	variables := map[string]any{"projectId": githubv4.ID(projectID)}
	if err := c.gql.Query(c.ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("remote: fetch project fields: %w", err)
	}

	var fields []Field
	for _, n := range query.Node.ProjectV2.Fields.Nodes {
		if n.ProjectV2SingleSelectField.ID == nil {
			continue
		}
		f := Field{
			ID:   asString(n.ProjectV2SingleSelectField.ID),
			Name: string(n.ProjectV2SingleSelectField.Name),
		}
		for _, opt := range n.ProjectV2SingleSelectField.Options {
			f.Options = append(f.Options, FieldOption{ID: asString(opt.ID), Name: string(opt.Name)})
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// asString unwraps a githubv4.ID (an any underneath) into a plain string.
func asString(id githubv4.ID) string {
	if id == nil {
		return ""
	}
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", id)
}
