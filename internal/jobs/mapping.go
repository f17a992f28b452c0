package jobs

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

const returning = "id, workspace_id, project_id, kind, status, task_id, input, output, error, created_at, updated_at"

var projection = query.
	NewProjectionMap("public", "jobs", "j").
	Project("id", "ID").
	Project("workspace_id", "WorkspaceID").
	Project("project_id", "ProjectID").
	Project("kind", "Kind").
	Project("status", "Status").
	Project("task_id", "TaskID").
	Project("input", "Input").
	Project("output", "Output").
	Project("error", "Error").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for job queries.
type Filters struct {
	Kind      *string    `json:"kind,omitempty"`
	Status    *string    `json:"status,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Kind", f.Kind).
		WhereEquals("Status", f.Status).
		WhereEquals("ProjectID", f.ProjectID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("kind"); k != "" {
		f.Kind = &k
	}
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if p := values.Get("project_id"); p != "" {
		if id, err := uuid.Parse(p); err == nil {
			f.ProjectID = &id
		}
	}

	return f
}

func scanJob(s repository.Scanner) (Job, error) {
	var j Job
	err := s.Scan(
		&j.ID,
		&j.WorkspaceID,
		&j.ProjectID,
		&j.Kind,
		&j.Status,
		&j.TaskID,
		repository.JSONColumn(&j.Input),
		repository.JSONColumn(&j.Output),
		&j.Error,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}
