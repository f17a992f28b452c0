package pagination_test

import (
	"encoding/json"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/trendr/pkg/pagination"
	"github.com/JaimeStill/trendr/pkg/query"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := pagination.Config{}
		if err := c.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		want := pagination.Config{DefaultPageSize: pagination.DefaultPageSize, MaxPageSize: pagination.MaxPageSize}
		if c != want || c.DefaultPageSize != 50 || c.MaxPageSize != 200 {
			t.Errorf("config = %+v, want %+v", c, want)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("TEST_PAGE_SIZE", "30")
		t.Setenv("TEST_MAX_PAGE", "500")

		c := pagination.Config{}
		err := c.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE", MaxPageSize: "TEST_MAX_PAGE"})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if c.DefaultPageSize != 30 || c.MaxPageSize != 500 {
			t.Errorf("config = %+v", c)
		}
	})

	t.Run("default exceeds max", func(t *testing.T) {
		c := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
		err := c.Finalize(nil)
		if err == nil || !strings.Contains(err.Error(), "cannot exceed") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestConfigMerge(t *testing.T) {
	c := cfg
	c.Merge(&pagination.Config{MaxPageSize: 50})

	if c.DefaultPageSize != 20 || c.MaxPageSize != 50 {
		t.Errorf("merged = %+v", c)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantSize     int
		wantOffset   int
		wantSearch   string
		wantSortSize int
	}{
		{"empty", "", 1, 20, 0, "", 0},
		{"explicit", "page=3&page_size=10", 3, 10, 20, "", 0},
		{"clamped", "page=-2&page_size=1000", 1, 100, 0, "", 0},
		{"search and sort", "search=launch&sort=Name,-CreatedAt", 1, 20, 0, "launch", 2},
		{"garbage", "page=abc&page_size=xyz", 1, 20, 0, "", 0},
		{"limit alias", "limit=5&page=2", 2, 5, 5, "", 0},
		{"page_size wins over limit", "page_size=7&limit=5", 1, 7, 0, "", 0},
		{"blank search", "search=%20%20", 1, 20, 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, cfg)

			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("page/size = %d/%d, want %d/%d", req.Page, req.PageSize, tt.wantPage, tt.wantSize)
			}
			if req.Offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", req.Offset(), tt.wantOffset)
			}
			if tt.wantSearch == "" && req.Search != nil {
				t.Errorf("search = %q, want nil", *req.Search)
			}
			if tt.wantSearch != "" && (req.Search == nil || *req.Search != tt.wantSearch) {
				t.Errorf("search = %v, want %q", req.Search, tt.wantSearch)
			}
			if len(req.Sort) != tt.wantSortSize {
				t.Errorf("sort = %v", req.Sort)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
		wantMore  bool
	}{
		{"empty", 0, 20, 1, false},
		{"exact", 40, 20, 2, true},
		{"remainder", 41, 20, 3, true},
		{"single page", 5, 20, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.NewPageResult[string](nil, tt.total, 1, tt.pageSize)
			if res.TotalPages != tt.wantPages {
				t.Errorf("total pages = %d, want %d", res.TotalPages, tt.wantPages)
			}
			if res.HasMore != tt.wantMore {
				t.Errorf("has more = %v, want %v", res.HasMore, tt.wantMore)
			}
			if res.Data == nil {
				t.Error("data should be an empty slice")
			}
		})
	}

	data, _ := json.Marshal(pagination.NewPageResult[int](nil, 0, 1, 20))
	if !strings.Contains(string(data), `"data":[]`) {
		t.Errorf("json = %s", data)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	want := pagination.SortFields{{Field: "Name"}, {Field: "CreatedAt", Descending: true}}

	for _, input := range []string{
		`"Name,-CreatedAt"`,
		`[{"Field":"Name"},{"Field":"CreatedAt","Descending":true}]`,
	} {
		var got pagination.SortFields
		if err := json.Unmarshal([]byte(input), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if !slices.Equal([]query.SortField(got), []query.SortField(want)) {
			t.Errorf("unmarshal %s = %v, want %v", input, got, want)
		}
	}

	var bad pagination.SortFields
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("expected error for numeric sort")
	}
}
