package projects

import (
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("workspace_id", "WorkspaceID").
	Project("name", "Name").
	Project("source_type", "SourceType").
	Project("source_ref", "SourceRef").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	err := s.Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.Name,
		&p.SourceType,
		&p.SourceRef,
		&p.CreatedAt,
	)
	return p, err
}
