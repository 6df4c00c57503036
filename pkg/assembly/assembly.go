// Package assembly owns the search being edited: the selected operation, the
// values entered so far, and whether they are enough to launch the search.
package assembly

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/samwightt/archivist/pkg/gql"
	"github.com/samwightt/archivist/pkg/schema"
)

var (
	// ErrNotSubmittable is returned by Submit when no operation is selected or
	// no required field group is satisfied.
	ErrNotSubmittable = errors.New("search cannot be submitted")
	// ErrFieldLocked is returned when changing a value seeded from the page URL.
	ErrFieldLocked = errors.New("field is fixed by the page URL")
)

// Field is a configured default search field.
type Field struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// DisplayLabel returns the configured label or one derived from the name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return gql.CamelCaseToWords(f.Name)
}

// RequiredGroup is one alternative set of required fields. It is satisfied
// when at least Min of its fields have a value.
type RequiredGroup struct {
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`
	Min    int     `yaml:"min" json:"min"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Search is the snapshot of a launched search.
type Search struct {
	Operation *schema.QueryDefinition
	Query     gql.QueryObject
}

// Document serializes the search into a GraphQL query document.
func (s *Search) Document() (string, error) {
	return gql.Serialize(s.Operation.Name, s.Query, s.Operation.Type.Projection())
}

// Literal renders the search with GraphQL input object literals, for
// validation against a schema.
func (s *Search) Literal() (string, error) {
	return gql.Literal(s.Operation.Name, s.Query, s.Operation.Type.Projection(), s.isEnum)
}

func (s *Search) isEnum(arg, field string) bool {
	a := s.Operation.Argument(arg)
	if a == nil {
		return false
	}
	f := a.InputField(field)
	return f != nil && f.Type != nil && len(f.Type.EnumValues) > 0
}

// Values returns the default-argument values of the search.
func (s *Search) Values() map[string]string {
	return s.Query[gql.DefaultArgument]
}

// ArgumentFields lists the input fields of one operation argument.
type ArgumentFields struct {
	Argument *schema.ArgumentDescriptor
	Fields   []*schema.FieldDescriptor
}

// Engine is the query assembly state of one search session.
type Engine struct {
	required []RequiredGroup
	optional []Field

	operation *schema.QueryDefinition
	query     gql.QueryObject
	seeded    map[string]string
	launched  bool
	last      *Search
}

// New creates an engine for the configured required groups and optional
// fields. Group order is significant.
func New(required []RequiredGroup, optional []Field) *Engine {
	return &Engine{
		required: required,
		optional: optional,
		query:    gql.QueryObject{},
		seeded:   map[string]string{},
	}
}

// DefaultFields returns the required fields, in group order, followed by the
// optional fields.
func (e *Engine) DefaultFields() []Field {
	var fields []Field
	for _, g := range e.required {
		fields = append(fields, g.Fields...)
	}
	return append(fields, e.optional...)
}

// RequiredGroups returns the configured groups.
func (e *Engine) RequiredGroups() []RequiredGroup {
	return e.required
}

// OptionalFields returns the configured optional fields.
func (e *Engine) OptionalFields() []Field {
	return e.optional
}

func (e *Engine) isDefaultField(name string) bool {
	return slices.ContainsFunc(e.DefaultFields(), func(f Field) bool { return f.Name == name })
}

// SeedFromURL pre-fills default fields from page URL parameters. Seeded
// values become fixed session defaults that Reset restores.
func (e *Engine) SeedFromURL(values url.Values) {
	for _, f := range e.DefaultFields() {
		v := values.Get(f.Name)
		if v == "" {
			continue
		}
		e.seeded[f.Name] = v
		e.set(gql.DefaultArgument, f.Name, v)
	}
}

// SeedFromQueryString parses "?a=1&b=2" (with or without the leading "?", or a
// full URL) and seeds from it.
func (e *Engine) SeedFromQueryString(raw string) error {
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		raw = u.RawQuery
	}
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return fmt.Errorf("invalid URL parameters: %w", err)
	}
	e.SeedFromURL(values)
	return nil
}

// Seeded reports whether field was pre-filled from the URL.
func (e *Engine) Seeded(field string) bool {
	_, ok := e.seeded[field]
	return ok
}

// SetFieldValue sets a field of the default argument.
func (e *Engine) SetFieldValue(value, field string) error {
	return e.SetArgumentValue(gql.DefaultArgument, field, value)
}

// SetArgumentValue sets field of argument arg. An empty value unsets the
// field. Any change means displayed results no longer match the inputs.
func (e *Engine) SetArgumentValue(arg, field, value string) error {
	if arg == gql.DefaultArgument && e.Seeded(field) {
		if value == e.seeded[field] {
			return nil
		}
		return fmt.Errorf("%s: %w", field, ErrFieldLocked)
	}
	e.set(arg, field, value)
	e.launched = false
	return nil
}

func (e *Engine) set(arg, field, value string) {
	if value == "" {
		delete(e.query[arg], field)
		if len(e.query[arg]) == 0 {
			delete(e.query, arg)
		}
		return
	}
	if e.query[arg] == nil {
		e.query[arg] = map[string]string{}
	}
	e.query[arg][field] = value
}

// Value returns the current value of field on arg. URL-seeded values win.
func (e *Engine) Value(arg, field string) string {
	if arg == gql.DefaultArgument {
		if v, ok := e.seeded[field]; ok {
			return v
		}
	}
	return e.query.Get(arg, field)
}

// Query returns a copy of the query object.
func (e *Engine) Query() gql.QueryObject {
	return e.query.Clone()
}

// SelectOperation replaces the selected operation. Entered values are kept
// since default fields do not depend on the operation.
func (e *Engine) SelectOperation(op *schema.QueryDefinition) {
	e.operation = op
	e.launched = false
}

// Operation returns the selected operation, or nil.
func (e *Engine) Operation() *schema.QueryDefinition {
	return e.operation
}

func (e *Engine) filled(g RequiredGroup) []Field {
	var fields []Field
	for _, f := range g.Fields {
		if e.query.Get(gql.DefaultArgument, f.Name) != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// SatisfiedGroup returns the first satisfied required group in config order,
// restricted to its filled fields.
func (e *Engine) SatisfiedGroup() (RequiredGroup, bool) {
	for _, g := range e.required {
		filled := e.filled(g)
		if len(filled) >= g.Min {
			return RequiredGroup{Label: g.Label, Min: g.Min, Fields: filled}, true
		}
	}
	return RequiredGroup{}, false
}

// CanSubmit reports whether an operation is selected and any required group
// is satisfied.
func (e *Engine) CanSubmit() bool {
	if e.operation == nil {
		return false
	}
	_, ok := e.SatisfiedGroup()
	return ok
}

// Dirty reports whether the inputs changed since the last launched search,
// or no search was launched yet.
func (e *Engine) Dirty() bool {
	return !e.launched
}

// SubmitDisabled reports whether the search button should be disabled: the
// search is not submittable, or its results are already displayed.
func (e *Engine) SubmitDisabled() bool {
	return !e.CanSubmit() || e.launched
}

// Submit freezes the current operation and query as the last launched search.
func (e *Engine) Submit() (*Search, error) {
	if !e.CanSubmit() {
		return nil, e.notSubmittable()
	}
	e.last = &Search{Operation: e.operation, Query: e.query.Clone()}
	e.launched = true
	return e.last, nil
}

func (e *Engine) notSubmittable() error {
	if e.operation == nil {
		return fmt.Errorf("%w: no operation selected", ErrNotSubmittable)
	}
	var alternatives []string
	for _, g := range e.required {
		names := make([]string, len(g.Fields))
		for i, f := range g.Fields {
			names[i] = f.Name
		}
		alternatives = append(alternatives, fmt.Sprintf("%d of [%s]", g.Min, strings.Join(names, ", ")))
	}
	if len(alternatives) == 0 {
		return fmt.Errorf("%w: no required field group is configured", ErrNotSubmittable)
	}
	return fmt.Errorf("%w: fill %s", ErrNotSubmittable, strings.Join(alternatives, " or "))
}

// LastSearch returns the last launched search, or nil.
func (e *Engine) LastSearch() *Search {
	return e.last
}

// DiscardResults forgets the last launched search, e.g. when its results are
// cleared.
func (e *Engine) DiscardResults() {
	e.last = nil
	e.launched = false
}

// Reset clears the operation and restores exactly the URL-seeded values.
func (e *Engine) Reset() {
	e.operation = nil
	e.query = gql.QueryObject{}
	for field, v := range e.seeded {
		e.set(gql.DefaultArgument, field, v)
	}
	e.launched = false
}

// IsClear reports whether the form is pristine: no operation selected and
// only the URL-seeded values present.
func (e *Engine) IsClear() bool {
	if e.operation != nil {
		return false
	}
	current := e.query.Clone()
	if len(e.seeded) == 0 {
		return len(current) == 0
	}
	return len(current) == 1 && maps.Equal(current[gql.DefaultArgument], e.seeded)
}

// AutoFocus returns the field that should receive focus: the first required
// field without a URL value. ok is false when focus belongs to the operation
// selector, which is also the case once the URL values satisfy a group.
func (e *Engine) AutoFocus() (Field, bool) {
	for _, g := range e.required {
		seeded := 0
		for _, f := range g.Fields {
			if e.Seeded(f.Name) {
				seeded++
			}
		}
		if seeded >= g.Min {
			return Field{}, false
		}
	}
	for _, g := range e.required {
		for _, f := range g.Fields {
			if !e.Seeded(f.Name) {
				return f, true
			}
		}
	}
	return Field{}, false
}

// DisplayFields returns, per argument, the input fields of op that are not
// already shown among the default fields.
func (e *Engine) DisplayFields(op *schema.QueryDefinition) []ArgumentFields {
	if op == nil {
		return nil
	}
	var out []ArgumentFields
	for _, arg := range op.Args {
		var fields []*schema.FieldDescriptor
		for _, f := range arg.InputFields {
			if arg.Name == gql.DefaultArgument && e.isDefaultField(f.Name) {
				continue
			}
			fields = append(fields, f)
		}
		if len(fields) > 0 {
			out = append(out, ArgumentFields{Argument: arg, Fields: fields})
		}
	}
	return out
}

// Title describes a search by its filled required fields:
// "Last name : Doe, First name : Jane".
func (e *Engine) Title(s *Search) string {
	var parts []string
	for _, g := range e.required {
		for _, f := range g.Fields {
			if v := s.Values()[f.Name]; v != "" {
				parts = append(parts, f.DisplayLabel()+" : "+v)
			}
		}
	}
	return strings.Join(parts, ", ")
}

// ExportFileName names an export of the results of s: the prefix followed by
// the filled required values joined with "_".
func (e *Engine) ExportFileName(prefix string, s *Search) string {
	var values []string
	for _, g := range e.required {
		for _, f := range g.Fields {
			if v := s.Values()[f.Name]; v != "" {
				values = append(values, v)
			}
		}
	}
	return prefix + strings.Join(values, "_")
}
