package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnknownField is returned when a filter or sort names a field that is
// not part of the projection.
var ErrUnknownField = errors.New("unknown field")

// SortField is one ORDER BY term. Field is a projected field name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "ts_utc,-helpful" into SortFields. A leading "-"
// means descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: after, Descending: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}
	return fields
}

// Builder accumulates conditions and ordering for a Projection. The first
// unknown field is remembered and reported by every Build method.
type Builder struct {
	projection  *Projection
	conditions  []string
	args        []any
	orderBy     []SortField
	defaultSort []SortField
	err         error
}

// NewBuilder creates a Builder that orders by defaultSort unless OrderBy is given fields.
func NewBuilder(p *Projection, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  p,
		defaultSort: defaultSort,
	}
}

// WhereEquals adds field = value. Nil values (including typed nil pointers) are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col, ok := b.column(field)
	if !ok {
		return b
	}
	b.args = append(b.args, deref(value))
	b.conditions = append(b.conditions, fmt.Sprintf("%s = $%d", col, len(b.args)))
	return b
}

// OrderBy replaces the default sort. An empty slice keeps the default.
func (b *Builder) OrderBy(fields []SortField) *Builder {
	for _, f := range fields {
		if _, ok := b.column(f.Field); !ok {
			return b
		}
	}
	if len(fields) > 0 {
		b.orderBy = fields
	}
	return b
}

// Build returns the unpaged SELECT.
func (b *Builder) Build() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	q := fmt.Sprintf("SELECT %s FROM %s%s%s",
		b.projection.Columns(), b.projection.From(), b.where(), b.order())
	return q, b.args, nil
}

// BuildCount returns a COUNT(*) over the current conditions.
func (b *Builder) BuildCount() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), b.where())
	return q, b.args, nil
}

// BuildPage returns the SELECT limited to one 1-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any, error) {
	q, args, err := b.Build()
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", q, pageSize, (page-1)*pageSize), args, nil
}

func (b *Builder) column(field string) (string, bool) {
	col, ok := b.projection.Column(field)
	if !ok && b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return col, ok
}

func (b *Builder) where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

func (b *Builder) order() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		col, _ := b.projection.Column(f.Field)
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = col + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// deref unwraps pointers and named string types so the driver sees plain values.
func deref(value any) any {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return v.Interface()
}
