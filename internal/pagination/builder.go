package pagination

import (
	"fmt"
	"sort"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Builder accumulates WHERE conditions for a listing query. Placeholders are
// written as ? and rebound by the caller for its dialect.
type Builder struct {
	// Fold is the SQL function that lower-cases a column for Contains.
	// Empty means LOWER.
	Fold string

	conds []string
	args  []any
}

// Contains adds a case-insensitive substring match on column. The value is
// lower-cased here and the column by Fold. An empty value adds no constraint.
func (b *Builder) Contains(column, value string) *Builder {
	if value == "" {
		return b
	}
	fold := b.Fold
	if fold == "" {
		fold = "LOWER"
	}
	b.conds = append(b.conds, fmt.Sprintf(`%s(%s) LIKE ? ESCAPE '\'`, fold, column))
	b.args = append(b.args, "%"+likeEscaper.Replace(strings.ToLower(value))+"%")
	return b
}

// Equals adds an exact match on column. An empty value adds no constraint.
func (b *Builder) Equals(column, value string) *Builder {
	if value == "" {
		return b
	}
	b.conds = append(b.conds, column+" = ?")
	b.args = append(b.args, value)
	return b
}

// Where returns the WHERE clause (with a leading space, or empty) and its args.
func (b *Builder) Where() (string, []any) {
	if len(b.conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(b.conds, " AND "), append([]any(nil), b.args...)
}

// Sort maps public sortBy names to SQL columns for one resource.
type Sort struct {
	Columns map[string]string
	Default string // public name used when the caller gives none
	Tie     string // column appended to keep page boundaries stable
}

// Fields lists the public sortable names.
func (s Sort) Fields() []string {
	out := make([]string, 0, len(s.Columns))
	for k := range s.Columns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Page returns the ORDER BY and LIMIT/OFFSET fragments and their args.
// p must already have passed Validate; anything else is a programming error.
func (s Sort) Page(p Params) (string, []any) {
	if p.Page < 1 || p.Limit < 1 || p.Limit > MaxLimit {
		panic(fmt.Sprintf("pagination: unvalidated params %+v", p))
	}

	field := p.SortBy
	if field == "" {
		field = s.Default
	}
	column, ok := s.Columns[field]
	if !ok {
		panic(fmt.Sprintf("pagination: unknown sort field %q", field))
	}

	dir := "DESC"
	if p.SortOrder == SortAsc {
		dir = "ASC"
	}

	clause := " ORDER BY " + column + " " + dir
	if s.Tie != "" && s.Tie != column {
		clause += ", " + s.Tie + " " + dir
	}
	return clause + " LIMIT ? OFFSET ?", []any{p.Limit, p.Offset()}
}
