package workflows

import (
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workflows", "w").
	Project("id", "ID").
	Project("workspace_id", "WorkspaceID").
	Project("name", "Name").
	Project("definition", "Definition").
	Project("created_at", "CreatedAt")

var defaultSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
}

func scanWorkflow(s repository.Scanner) (Workflow, error) {
	var w Workflow
	var definition []byte
	err := s.Scan(&w.ID, &w.WorkspaceID, &w.Name, &definition, &w.CreatedAt)
	w.Definition = definition
	return w, err
}
