package query_test

import (
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/query"
)

func jobsProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "jobs", "j").
		Project("id", "ID").
		Project("workspace_id", "WorkspaceID").
		Project("kind", "Kind").
		Project("status", "Status").
		Project("created_at", "CreatedAt")
}

var newestFirst = query.SortField{Field: "CreatedAt", Descending: true}

func TestProjectionMap(t *testing.T) {
	p := jobsProjection()

	if got := p.Table(); got != "public.jobs j" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.Columns(); got != "j.id, j.workspace_id, j.kind, j.status, j.created_at" {
		t.Errorf("Columns() = %q", got)
	}
	if got := p.Column("Kind"); got != "j.kind" {
		t.Errorf("Column(Kind) = %q", got)
	}
	if got := p.Column("unmapped"); got != "unmapped" {
		t.Errorf("Column(unmapped) = %q", got)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		in   string
		want []query.SortField
	}{
		{"", nil},
		{"Kind", []query.SortField{{Field: "Kind"}}},
		{"Kind, -CreatedAt", []query.SortField{{Field: "Kind"}, {Field: "CreatedAt", Descending: true}}},
		{",,-Status,", []query.SortField{{Field: "Status", Descending: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := query.ParseSortFields(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPage(t *testing.T) {
	ws := uuid.New()
	status := "failed"
	var kind *string

	b := query.NewBuilder(jobsProjection(), newestFirst).
		WhereEquals("WorkspaceID", ws).
		WhereEquals("Kind", kind).
		WhereEquals("Status", &status)

	sql, args := b.BuildPage(3, 10)
	want := "SELECT j.id, j.workspace_id, j.kind, j.status, j.created_at FROM public.jobs j" +
		" WHERE j.workspace_id = $1 AND j.status = $2 ORDER BY j.created_at DESC LIMIT 10 OFFSET 20"
	if sql != want {
		t.Errorf("BuildPage:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 2 || args[0] != ws || args[1] != &status {
		t.Errorf("args = %v", args)
	}

	count, countArgs := b.BuildCount()
	if count != "SELECT COUNT(*) FROM public.jobs j WHERE j.workspace_id = $1 AND j.status = $2" {
		t.Errorf("BuildCount = %s", count)
	}
	if len(countArgs) != 2 {
		t.Errorf("count args = %v", countArgs)
	}
}

func TestOrderByFieldsOverridesDefault(t *testing.T) {
	sql, _ := query.NewBuilder(jobsProjection(), newestFirst).
		OrderByFields(query.ParseSortFields("Kind,-ID")).
		Build()

	want := "SELECT j.id, j.workspace_id, j.kind, j.status, j.created_at FROM public.jobs j ORDER BY j.kind ASC, j.id DESC"
	if sql != want {
		t.Errorf("Build:\n got %s\nwant %s", sql, want)
	}
}

func TestOrderByFieldsDropsUnmapped(t *testing.T) {
	const base = "SELECT j.id, j.workspace_id, j.kind, j.status, j.created_at FROM public.jobs j"

	tests := []struct {
		name string
		sort string
		want string
	}{
		{"column name", "-created_at", base + " ORDER BY j.created_at DESC"},
		{"mixed with unmapped", "Kind,password", base + " ORDER BY j.kind ASC"},
		{"injection attempt", "id;DROP TABLE jobs", base + " ORDER BY j.created_at DESC"},
		{"all unmapped", "nope,-missing", base + " ORDER BY j.created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _ := query.NewBuilder(jobsProjection(), newestFirst).
				OrderByFields(query.ParseSortFields(tt.sort)).
				Build()
			if sql != tt.want {
				t.Errorf("Build:\n got %s\nwant %s", sql, tt.want)
			}
		})
	}
}

func TestProjectionLookup(t *testing.T) {
	p := jobsProjection()

	for _, name := range []string{"WorkspaceID", "workspace_id"} {
		if col, ok := p.Lookup(name); !ok || col != "j.workspace_id" {
			t.Errorf("Lookup(%s) = %q, %v", name, col, ok)
		}
	}
	if _, ok := p.Lookup("j.workspace_id"); ok {
		t.Error("qualified column should not resolve")
	}
}

func TestWhereSearch(t *testing.T) {
	p := query.NewProjectionMap("public", "projects", "p").
		Project("id", "ID").
		Project("name", "Name").
		Project("source_ref", "SourceRef")

	empty := ""
	term := "launch"

	tests := []struct {
		name     string
		search   *string
		wantSQL  string
		wantArgs []any
	}{
		{"nil", nil, "SELECT COUNT(*) FROM public.projects p", nil},
		{"empty", &empty, "SELECT COUNT(*) FROM public.projects p", nil},
		{
			"term",
			&term,
			"SELECT COUNT(*) FROM public.projects p WHERE (p.name ILIKE $1 OR p.source_ref ILIKE $2)",
			[]any{"%launch%", "%launch%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := query.NewBuilder(p).WhereSearch(tt.search, "Name", "SourceRef").BuildCount()
			if sql != tt.wantSQL {
				t.Errorf("sql = %s, want %s", sql, tt.wantSQL)
			}
			if !slices.Equal(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildSingle(t *testing.T) {
	id := uuid.New()
	ws := uuid.New()

	sql, args := query.NewBuilder(jobsProjection()).BuildSingle("ID", id)
	if sql != "SELECT j.id, j.workspace_id, j.kind, j.status, j.created_at FROM public.jobs j WHERE j.id = $1" {
		t.Errorf("BuildSingle = %s", sql)
	}
	if len(args) != 1 || args[0] != id {
		t.Errorf("args = %v", args)
	}

	sql, args = query.NewBuilder(jobsProjection(), newestFirst).
		WhereEquals("WorkspaceID", ws).
		WhereEquals("ID", id).
		BuildSingleOrNull()
	want := "SELECT j.id, j.workspace_id, j.kind, j.status, j.created_at FROM public.jobs j" +
		" WHERE j.workspace_id = $1 AND j.id = $2 ORDER BY j.created_at DESC LIMIT 1"
	if sql != want {
		t.Errorf("BuildSingleOrNull:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 2 || args[0] != ws || args[1] != id {
		t.Errorf("args = %v", args)
	}
}
