package templates

import (
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

const returning = "id, workspace_id, name, kind, version, content, meta, created_at"

var projection = query.
	NewProjectionMap("public", "templates", "t").
	Project("id", "ID").
	Project("workspace_id", "WorkspaceID").
	Project("name", "Name").
	Project("kind", "Kind").
	Project("version", "Version").
	Project("content", "Content").
	Project("meta", "Meta").
	Project("created_at", "CreatedAt")

var defaultSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "Version", Descending: true},
}

func scanTemplate(s repository.Scanner) (Template, error) {
	var t Template
	err := s.Scan(
		&t.ID,
		&t.WorkspaceID,
		&t.Name,
		&t.Kind,
		&t.Version,
		&t.Content,
		repository.JSONColumn(&t.Meta),
		&t.CreatedAt,
	)
	if t.Meta == nil {
		t.Meta = map[string]any{}
	}
	return t, err
}
