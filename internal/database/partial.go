package database

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrEmptyUpdate   = errors.New("no data to update")
	ErrInvalidColumn = errors.New("invalid column name")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Field is one entry of a sparse update: a logical field name and its new value.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered update payload. Order decides placeholder numbering.
type Fields []Field

// Add appends a field and returns the extended list.
func (f Fields) Add(name string, value any) Fields {
	return append(f, Field{Name: name, Value: value})
}

// fieldsFromMap builds Fields from a map, sorted by key so the result is stable.
func fieldsFromMap(data map[string]any) Fields {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(Fields, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Name: k, Value: data[k]})
	}
	return fields
}

// PartialUpdate is a parameterized SET clause and its values in placeholder order.
type PartialUpdate struct {
	SetClause string
	Values    []any
}

// Next returns the first placeholder after the SET clause, e.g. for "WHERE id = $N".
func (p PartialUpdate) Next() string {
	return fmt.Sprintf("$%d", len(p.Values)+1)
}

// Args returns the clause values followed by extra, ready to pass to the driver.
func (p PartialUpdate) Args(extra ...any) []any {
	args := make([]any, 0, len(p.Values)+len(extra))
	args = append(args, p.Values...)
	return append(args, extra...)
}

// BuildPartialUpdate turns data into `col = $1, col2 = $2` style assignments.
//
// columns maps logical field names to database columns; a field missing from
// columns is used as the column name as is. Column names are written into the
// SQL text, so columns and the field names fed into data must come from code,
// never from request input.
func BuildPartialUpdate(data Fields, columns map[string]string) (PartialUpdate, error) {
	if len(data) == 0 {
		return PartialUpdate{}, ErrEmptyUpdate
	}

	assignments := make([]string, 0, len(data))
	values := make([]any, 0, len(data))
	for i, field := range data {
		column, ok := columns[field.Name]
		if !ok {
			column = field.Name
		}
		if !identifier.MatchString(column) {
			return PartialUpdate{}, fmt.Errorf("%w: %q", ErrInvalidColumn, column)
		}

		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
		values = append(values, field.Value)
	}

	return PartialUpdate{
		SetClause: strings.Join(assignments, ", "),
		Values:    values,
	}, nil
}
