package listing

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

var testWhitelist = Whitelist{
	Exact: map[string]string{
		"id":        "users.id",
		"is_active": "users.is_active",
	},
	Substring: map[string]string{
		"name":  "users.name",
		"email": "users.email",
	},
	Search: []string{"users.name", "users.email"},
	Sort: map[string]string{
		"id":   "users.id",
		"name": "users.name",
	},
}

func TestParseParams_Defaults(t *testing.T) {
	p, err := ParseParams(url.Values{}, testWhitelist)
	if err != nil {
		t.Fatalf("ParseParams failed: %v", err)
	}
	if p.Page != 1 || p.PerPage != 10 {
		t.Errorf("Expected page 1 per_page 10, got %d/%d", p.Page, p.PerPage)
	}
}

func TestParseParams_FilterOps(t *testing.T) {
	values := url.Values{}
	values.Set("filters", `[{"key":"name","value":"jo"},{"key":"id","value":"usr_1"}]`)

	p, err := ParseParams(values, testWhitelist)
	if err != nil {
		t.Fatalf("ParseParams failed: %v", err)
	}
	if len(p.Filters) != 2 {
		t.Fatalf("Expected 2 filters, got %d", len(p.Filters))
	}
	if p.Filters[0].Op != OpContains {
		t.Errorf("Expected substring op for name filter")
	}
	if p.Filters[1].Op != OpExact {
		t.Errorf("Expected exact op for id filter")
	}
}

func TestParseParams_UnknownFilterField(t *testing.T) {
	values := url.Values{}
	values.Set("filters", `[{"key":"password_hash","value":"x"}]`)

	_, err := ParseParams(values, testWhitelist)
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}

func TestParseParams_UnknownSortField(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "created_at")

	_, err := ParseParams(values, testWhitelist)
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}

func TestParseParams_BadFiltersEncoding(t *testing.T) {
	values := url.Values{}
	values.Set("filters", `not-json`)

	if _, err := ParseParams(values, testWhitelist); err == nil {
		t.Error("Expected error for malformed filters")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`50%`, `50\%`},
		{`a_b`, `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		if got := EscapeLike(tt.in); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuild_CountExcludesPagination(t *testing.T) {
	base := Query{
		Select: "users.id",
		From:   "users",
		Where:  []string{"users.company_id = ?"},
		Args:   []interface{}{"cmp_1"},
	}
	p := Params{Page: 3, PerPage: 20, Search: "jo"}

	built, err := Build(base, testWhitelist, p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if strings.Contains(built.CountSQL, "LIMIT") {
		t.Errorf("Count query must not paginate: %s", built.CountSQL)
	}
	if !strings.Contains(built.ListSQL, "LIMIT ? OFFSET ?") {
		t.Errorf("List query missing pagination: %s", built.ListSQL)
	}

	// search adds one arg per search column; list adds limit and offset
	if len(built.CountArgs) != 3 {
		t.Errorf("Expected 3 count args, got %d", len(built.CountArgs))
	}
	if len(built.ListArgs) != 5 {
		t.Errorf("Expected 5 list args, got %d", len(built.ListArgs))
	}

	offset := built.ListArgs[len(built.ListArgs)-1]
	if offset != 40 {
		t.Errorf("Expected offset 40 for page 3, got %v", offset)
	}
}

func TestBuild_SubstringFilterWrapsValue(t *testing.T) {
	base := Query{Select: "users.id", From: "users"}
	p := Params{
		Page:    1,
		PerPage: 10,
		Filters: []Filter{{Key: "name", Value: "50%", Op: OpContains}},
	}

	built, err := Build(base, testWhitelist, p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if built.ListArgs[0] != `%50\%%` {
		t.Errorf("Expected escaped wrapped value, got %v", built.ListArgs[0])
	}
	if !strings.Contains(built.ListSQL, `users.name LIKE ? ESCAPE '\'`) {
		t.Errorf("Expected escaped LIKE clause: %s", built.ListSQL)
	}
}

func TestBuild_SortDirection(t *testing.T) {
	base := Query{Select: "users.id", From: "users"}

	built, err := Build(base, testWhitelist, Params{Page: 1, PerPage: 10, Sort: "name", SortDir: "ASC"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(built.ListSQL, "ORDER BY users.name ASC") {
		t.Errorf("Expected ascending sort: %s", built.ListSQL)
	}

	built, err = Build(base, testWhitelist, Params{Page: 1, PerPage: 10, SortDir: "sideways"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(built.ListSQL, "ORDER BY users.id DESC") {
		t.Errorf("Expected default descending id sort: %s", built.ListSQL)
	}
}

func TestBuild_UnknownSortColumn(t *testing.T) {
	base := Query{Select: "users.id", From: "users"}
	_, err := Build(base, testWhitelist, Params{Page: 1, PerPage: 10, Sort: "password_hash"})
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}
