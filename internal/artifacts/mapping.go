package artifacts

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

const returning = "id, workspace_id, project_id, kind, title, content, meta, created_at, updated_at"

var projection = query.
	NewProjectionMap("public", "artifacts", "a").
	Project("id", "ID").
	Project("workspace_id", "WorkspaceID").
	Project("project_id", "ProjectID").
	Project("kind", "Kind").
	Project("title", "Title").
	Project("content", "Content").
	Project("meta", "Meta").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var newestFirst = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID", Descending: true},
}

// Filters narrows artifact listings. ProjectID is required by the HTTP API.
type Filters struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Kind      *string    `json:"kind,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProjectID", f.ProjectID).
		WhereEquals("Kind", f.Kind)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if p := values.Get("project_id"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			return f, ErrInvalidInput
		}
		f.ProjectID = &id
	}
	if k := values.Get("kind"); k != "" {
		f.Kind = &k
	}

	return f, nil
}

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	err := s.Scan(
		&a.ID,
		&a.WorkspaceID,
		&a.ProjectID,
		&a.Kind,
		&a.Title,
		&a.Content,
		repository.JSONColumn(&a.Meta),
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if a.Meta == nil {
		a.Meta = map[string]any{}
	}
	return a, err
}
