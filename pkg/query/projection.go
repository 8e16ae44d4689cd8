// Package query builds parameterized PostgreSQL SELECT statements over a
// fixed projection of named fields.
package query

import (
	"fmt"
	"strings"
)

// Projection maps public field names to qualified column references
// (alias.column) over a base table and optional joins.
type Projection struct {
	table   string
	alias   string
	joins   []string
	columns map[string]string
	list    []string
}

// NewProjection creates a Projection over table, referenced as alias.
func NewProjection(table, alias string) *Projection {
	return &Projection{
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Join appends an inner join clause, e.g. "classification c ON c.id = f.id".
func (p *Projection) Join(clause string) *Projection {
	p.joins = append(p.joins, clause)
	return p
}

// Project exposes alias.column under field. The alias defaults to the base
// table alias when column is unqualified.
func (p *Projection) Project(column, field string) *Projection {
	qualified := column
	if !strings.Contains(column, ".") {
		qualified = fmt.Sprintf("%s.%s", p.alias, column)
	}
	p.columns[field] = qualified
	p.list = append(p.list, qualified)
	return p
}

// Column returns the qualified column for field and whether it is projected.
func (p *Projection) Column(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}

// Columns returns every projected column as a select list.
func (p *Projection) Columns() string {
	return strings.Join(p.list, ", ")
}

// From returns the FROM clause body including joins.
func (p *Projection) From() string {
	from := fmt.Sprintf("%s %s", p.table, p.alias)
	for _, join := range p.joins {
		from += " JOIN " + join
	}
	return from
}
