package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrUnknownField is returned for filter or sort fields outside the
// per-entity whitelist. Unknown fields are rejected at the boundary rather
// than silently dropped.
var ErrUnknownField = errors.New("unknown filter field")

type Op int

const (
	OpExact Op = iota
	OpContains
)

type Filter struct {
	Key   string
	Value string
	Op    Op
}

type Params struct {
	Page    int
	PerPage int
	Sort    string
	SortDir string
	Filters []Filter
	Search  string
}

// Whitelist maps caller-facing field names onto SQL column expressions for
// one entity listing. A field present in neither Exact nor Substring cannot
// be filtered on; a field absent from Sort cannot be sorted on.
type Whitelist struct {
	Exact     map[string]string
	Substring map[string]string
	Search    []string
	Sort      map[string]string
}

// Query is the base select an entity listing starts from, carrying its
// role/tenant scoping in Where.
type Query struct {
	Select string
	From   string
	Where  []string
	Args   []interface{}
}

type Built struct {
	ListSQL   string
	ListArgs  []interface{}
	CountSQL  string
	CountArgs []interface{}
}

// ParseParams reads listing parameters from a query string. Filters arrive
// JSON-encoded as [{"key":...,"value":...}]; each key is resolved against
// the whitelist here so bad requests fail before any SQL is composed.
func ParseParams(values url.Values, wl Whitelist) (Params, error) {
	p := Params{
		Page:    1,
		PerPage: 10,
		Sort:    values.Get("sort"),
		SortDir: values.Get("sort_dir"),
		Search:  values.Get("search"),
	}

	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := values.Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.PerPage = n
		}
	}

	if raw := values.Get("filters"); raw != "" {
		var pairs []struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
			return Params{}, fmt.Errorf("invalid filters encoding: %w", err)
		}

		for _, pair := range pairs {
			if _, ok := wl.Substring[pair.Key]; ok {
				p.Filters = append(p.Filters, Filter{Key: pair.Key, Value: pair.Value, Op: OpContains})
				continue
			}
			if _, ok := wl.Exact[pair.Key]; ok {
				p.Filters = append(p.Filters, Filter{Key: pair.Key, Value: pair.Value, Op: OpExact})
				continue
			}
			return Params{}, fmt.Errorf("%w: %s", ErrUnknownField, pair.Key)
		}
	}

	if p.Sort != "" {
		if _, ok := wl.Sort[p.Sort]; !ok {
			return Params{}, fmt.Errorf("%w: %s", ErrUnknownField, p.Sort)
		}
	}

	return p, nil
}

// EscapeLike neutralizes the three wildcard-significant characters so a
// caller-supplied value always matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Build composes the paginated list query and the matching pre-pagination
// count query. The count runs against the filtered and searched set, never
// the paginated slice.
func Build(q Query, wl Whitelist, p Params) (*Built, error) {
	where := append([]string{}, q.Where...)
	args := append([]interface{}{}, q.Args...)

	for _, f := range p.Filters {
		value := EscapeLike(f.Value)
		switch f.Op {
		case OpContains:
			col, ok := wl.Substring[f.Key]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, f.Key)
			}
			where = append(where, col+` LIKE ? ESCAPE '\'`)
			args = append(args, "%"+value+"%")
		case OpExact:
			col, ok := wl.Exact[f.Key]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, f.Key)
			}
			where = append(where, col+` LIKE ? ESCAPE '\'`)
			args = append(args, value)
		}
	}

	if p.Search != "" && len(wl.Search) > 0 {
		value := "%" + EscapeLike(p.Search) + "%"
		clauses := make([]string, 0, len(wl.Search))
		for _, col := range wl.Search {
			clauses = append(clauses, col+` LIKE ? ESCAPE '\'`)
			args = append(args, value)
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	countSQL := "SELECT COUNT(*) FROM " + q.From + whereSQL
	countArgs := append([]interface{}{}, args...)

	sortKey := p.Sort
	if sortKey == "" {
		sortKey = "id"
	}
	sortCol, ok := wl.Sort[sortKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, sortKey)
	}

	dir := "DESC"
	if strings.EqualFold(p.SortDir, "asc") {
		dir = "ASC"
	}

	page := p.Page - 1
	if page < 0 {
		page = 0
	}

	listSQL := "SELECT " + q.Select + " FROM " + q.From + whereSQL +
		" ORDER BY " + sortCol + " " + dir + " LIMIT ? OFFSET ?"
	listArgs := append(args, p.PerPage, p.PerPage*page)

	return &Built{
		ListSQL:   listSQL,
		ListArgs:  listArgs,
		CountSQL:  countSQL,
		CountArgs: countArgs,
	}, nil
}
