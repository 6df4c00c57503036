package schema

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gqlparser "github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// FromSDL builds the introspection model from a schema document, so the
// catalogue can be derived offline from a .graphql file.
func FromSDL(name, input string) (*Schema, *ast.Schema, error) {
	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: input})
	if err != nil {
		return nil, nil, err
	}
	return FromAST(parsed), parsed, nil
}

// LoadSDL reads and converts a schema file.
func LoadSDL(path string) (*Schema, *ast.Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}
	bytes, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, err
	}
	return FromSDL(filepath.Base(abs), string(bytes))
}

// FromAST converts a parsed schema. Built-in introspection types and fields
// are skipped; types are listed by name.
func FromAST(parsed *ast.Schema) *Schema {
	s := &Schema{}

	names := make([]string, 0, len(parsed.Types))
	for name := range parsed.Types {
		if strings.HasPrefix(name, "__") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s.Types = append(s.Types, definitionToType(parsed.Types[name]))
	}

	if parsed.Query != nil {
		s.QueryType = &QueryType{Name: parsed.Query.Name}
		for _, f := range parsed.Query.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			s.QueryType.Fields = append(s.QueryType.Fields, fieldDefinitionToField(parsed, f))
		}
	}
	return s
}

func definitionToType(def *ast.Definition) *TypeDescriptor {
	t := &TypeDescriptor{
		Kind:        string(def.Kind),
		Name:        def.Name,
		Description: def.Description,
	}
	switch def.Kind {
	case ast.InputObject:
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, &FieldDescriptor{
				Name:        f.Name,
				Description: f.Description,
				Type:        astTypeToRef(nil, f.Type),
			})
		}
	case ast.Object, ast.Interface:
		for _, f := range def.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			t.Fields = append(t.Fields, &FieldDescriptor{
				Name:        f.Name,
				Description: f.Description,
				Type:        astTypeToRef(nil, f.Type),
			})
		}
	case ast.Enum:
		for _, v := range def.EnumValues {
			t.EnumValues = append(t.EnumValues, EnumValue{Name: v.Name})
		}
	}
	return t
}

func fieldDefinitionToField(parsed *ast.Schema, f *ast.FieldDefinition) *FieldDescriptor {
	field := &FieldDescriptor{
		Name:        f.Name,
		Description: f.Description,
		Type:        astTypeToRef(parsed, f.Type),
	}
	for _, arg := range f.Arguments {
		field.Args = append(field.Args, &ArgumentDescriptor{
			Name: arg.Name,
			Type: astTypeToRef(parsed, arg.Type),
		})
	}
	return field
}

// astTypeToRef wraps list and non-null types the way introspection does.
// When parsed is set the named type's description is carried over.
func astTypeToRef(parsed *ast.Schema, t *ast.Type) *TypeDescriptor {
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		return &TypeDescriptor{Kind: KindNonNull, OfType: astTypeToRef(parsed, &inner)}
	}
	if t.Elem != nil {
		return &TypeDescriptor{Kind: KindList, OfType: astTypeToRef(parsed, t.Elem)}
	}
	ref := &TypeDescriptor{Name: t.NamedType}
	if parsed != nil {
		if def := parsed.Types[t.NamedType]; def != nil {
			ref.Kind = string(def.Kind)
			ref.Description = def.Description
		}
	}
	return ref
}
