package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/samwightt/archivist/pkg/gql"
)

// ErrNoSchema is reported when an introspection response has no schema data.
var ErrNoSchema = errors.New("graphql introspection: no schema data")

// TypeLookupError is returned when a referenced type is missing from the
// schema's type list.
type TypeLookupError struct {
	Path       string
	TypeName   string
	Suggestion string
}

func (e *TypeLookupError) Error() string {
	msg := fmt.Sprintf("schema integrity: type '%s' referenced by %s does not exist", e.TypeName, e.Path)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean '%s'?", e.Suggestion)
	}
	return msg
}

// Catalog is the list of operations usable by the search form.
type Catalog struct {
	Operations []*QueryDefinition
}

// Empty reports whether no operation is available.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.Operations) == 0
}

// Names returns the operation names in schema order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		names[i] = op.Name
	}
	return names
}

// Find returns the operation with the given name or label.
func (c *Catalog) Find(name string) (*QueryDefinition, error) {
	if c != nil {
		for _, op := range c.Operations {
			if op.Name == name || strings.EqualFold(op.Label, name) {
				return op, nil
			}
		}
	}
	if suggestion := findClosest(name, c.Names()); suggestion != "" {
		return nil, fmt.Errorf("operation '%s' does not exist, did you mean '%s'?", name, suggestion)
	}
	return nil, fmt.Errorf("operation '%s' does not exist", name)
}

// Option customizes Process.
type Option func(*processor)

// WithWidgetResolver sets the function deciding the input widget of every
// argument input field.
func WithWidgetResolver(fn func(*FieldDescriptor) string) Option {
	return func(p *processor) {
		p.widget = fn
	}
}

type processor struct {
	types  map[string]*TypeDescriptor
	names  []string
	widget func(*FieldDescriptor) string
}

// Process builds the operation catalogue. Operations are kept when they take
// at least one argument and return a list. A nil schema yields an empty
// catalogue; a dangling type reference fails the whole build.
func Process(s *Schema, opts ...Option) (*Catalog, error) {
	catalog := &Catalog{}
	if s == nil || s.QueryType == nil {
		return catalog, nil
	}

	p := &processor{types: make(map[string]*TypeDescriptor, len(s.Types))}
	for _, o := range opts {
		o(p)
	}
	for _, t := range s.Types {
		if t == nil || t.Name == "" {
			continue
		}
		p.types[t.Name] = t
		p.names = append(p.names, t.Name)
	}

	for _, field := range s.QueryType.Fields {
		if len(field.Args) == 0 || !field.Type.IsList() {
			continue
		}
		op, err := p.operation(field)
		if err != nil {
			return nil, err
		}
		catalog.Operations = append(catalog.Operations, op)
	}
	return catalog, nil
}

func (p *processor) operation(field *FieldDescriptor) (*QueryDefinition, error) {
	op := &QueryDefinition{
		Name:        field.Name,
		Label:       gql.CamelCaseToWords(field.Name),
		Description: field.Type.Description,
		Type:        cloneRef(field.Type),
	}
	if field.Description != "" {
		op.Description = field.Description
	}

	for _, arg := range field.Args {
		resolved, err := p.argument(op.Name, arg)
		if err != nil {
			return nil, err
		}
		op.Args = append(op.Args, resolved)
	}

	if err := p.expand(op.Type, op.Name, map[string]bool{}); err != nil {
		return nil, err
	}
	return op, nil
}

// argument copies the input fields of the argument's type onto the argument
// and expands each input field's type.
func (p *processor) argument(opName string, arg *ArgumentDescriptor) (*ArgumentDescriptor, error) {
	path := opName + "(" + arg.Name + ")"
	t, err := p.lookup(arg.Type, path)
	if err != nil {
		return nil, err
	}

	resolved := &ArgumentDescriptor{Name: arg.Name, Type: cloneRef(arg.Type)}
	for _, f := range t.InputFields {
		input := cloneField(f)
		input.Label = gql.CamelCaseToWords(f.Name)
		if err := p.expand(input.Type, path+"."+f.Name, map[string]bool{}); err != nil {
			return nil, err
		}
		if p.widget != nil {
			input.Widget = p.widget(input)
		}
		resolved.InputFields = append(resolved.InputFields, input)
	}
	return resolved, nil
}

// expand attaches the fields and enum values of the referenced type onto ref.
// Fields are copied, so every reference owns its own subtree and expanding
// twice assigns the same values again.
func (p *processor) expand(ref *TypeDescriptor, path string, inProgress map[string]bool) error {
	t, err := p.lookup(ref, path)
	if err != nil {
		return err
	}
	name := t.Name

	ref.Recursive = false
	ref.Fields = nil
	ref.EnumValues = append([]EnumValue(nil), t.EnumValues...)
	if len(ref.EnumValues) == 0 {
		ref.EnumValues = nil
	}

	declared := t.Fields
	if len(declared) == 0 {
		declared = t.InputFields
	}
	if len(declared) == 0 {
		return nil
	}
	if inProgress[name] {
		ref.Recursive = true
		return nil
	}

	inProgress[name] = true
	defer delete(inProgress, name)

	fields := make([]*FieldDescriptor, 0, len(declared))
	for _, f := range declared {
		child := cloneField(f)
		child.Label = gql.CamelCaseToWords(f.Name)
		if err := p.expand(child.Type, path+"."+f.Name, inProgress); err != nil {
			return err
		}
		fields = append(fields, child)
	}
	ref.Fields = fields
	return nil
}

func (p *processor) lookup(ref *TypeDescriptor, path string) (*TypeDescriptor, error) {
	name := ref.BaseName()
	if t, ok := p.types[name]; ok {
		return t, nil
	}
	return nil, &TypeLookupError{
		Path:       path,
		TypeName:   name,
		Suggestion: findClosest(name, p.names),
	}
}

func cloneRef(t *TypeDescriptor) *TypeDescriptor {
	if t == nil {
		return &TypeDescriptor{}
	}
	return &TypeDescriptor{
		Kind:        t.Kind,
		Name:        t.Name,
		Description: t.Description,
		OfType:      t.OfType,
	}
}

func cloneField(f *FieldDescriptor) *FieldDescriptor {
	return &FieldDescriptor{
		Name:        f.Name,
		Description: f.Description,
		Type:        cloneRef(f.Type),
		Label:       f.Label,
	}
}

// Projection returns the field tree requested for this type. Fields whose
// expansion was cut by a cycle are left out, as are object fields left with
// nothing to select.
func (t *TypeDescriptor) Projection() gql.FieldTree {
	if t == nil {
		return nil
	}
	var tree gql.FieldTree
	for _, f := range t.Fields {
		if f.Type == nil || f.Type.Recursive {
			continue
		}
		node := gql.FieldNode{Name: f.Name}
		if len(f.Type.Fields) > 0 {
			node.Fields = f.Type.Projection()
			if len(node.Fields) == 0 {
				continue
			}
		}
		tree = append(tree, node)
	}
	return tree
}

const maxSuggestionDistance = 5

func findClosest(input string, candidates []string) string {
	minDist := -1
	closest := ""
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(input, c)
		if minDist == -1 || dist < minDist {
			minDist = dist
			closest = c
		}
	}
	if minDist > maxSuggestionDistance {
		return ""
	}
	return closest
}
