// Package schema turns GraphQL introspection into the catalogue of search
// operations the query form is built from.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Type kinds as reported by introspection.
const (
	KindScalar      = "SCALAR"
	KindObject      = "OBJECT"
	KindInterface   = "INTERFACE"
	KindUnion       = "UNION"
	KindEnum        = "ENUM"
	KindInputObject = "INPUT_OBJECT"
	KindList        = "LIST"
	KindNonNull     = "NON_NULL"
)

// TypeDescriptor is a type node. Name may carry list and non-null decorations
// ("[Person!]"); servers that report standard wrappers leave Name empty and
// set Kind/OfType instead. Fields and EnumValues are attached by expansion.
type TypeDescriptor struct {
	Kind        string             `json:"kind,omitempty"`
	Name        string             `json:"name,omitempty"`
	Description string             `json:"description,omitempty"`
	OfType      *TypeDescriptor    `json:"ofType,omitempty"`
	Fields      []*FieldDescriptor `json:"fields,omitempty"`
	InputFields []*FieldDescriptor `json:"inputFields,omitempty"`
	EnumValues  []EnumValue        `json:"enumValues,omitempty"`

	// Recursive marks a reference whose expansion was cut because the type
	// was already being expanded on the same path.
	Recursive bool `json:"-"`
}

type EnumValue struct {
	Name string `json:"name"`
}

type FieldDescriptor struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Type        *TypeDescriptor       `json:"type"`
	Args        []*ArgumentDescriptor `json:"args,omitempty"`
	Label       string                `json:"label,omitempty"`
	// Widget is the input widget kind chosen for argument input fields.
	Widget string `json:"widget,omitempty"`
}

type ArgumentDescriptor struct {
	Name        string             `json:"name"`
	Type        *TypeDescriptor    `json:"type"`
	InputFields []*FieldDescriptor `json:"inputFields,omitempty"`
}

// QueryDefinition is a top-level operation usable by the search form.
type QueryDefinition struct {
	Name        string
	Label       string
	Description string
	Args        []*ArgumentDescriptor
	Type        *TypeDescriptor
}

// Schema is the "__schema" part of an introspection response.
type Schema struct {
	QueryType *QueryType        `json:"queryType"`
	Types     []*TypeDescriptor `json:"types"`
}

type QueryType struct {
	Name   string             `json:"name"`
	Fields []*FieldDescriptor `json:"fields"`
}

type introspectionResponse struct {
	Data struct {
		Schema *Schema `json:"__schema"`
	} `json:"data"`
}

// ParseIntrospection decodes an introspection response. A response without
// schema data yields a nil Schema and no error.
func ParseIntrospection(raw []byte) (*Schema, error) {
	var resp introspectionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("graphql introspection: parse failed: %w", err)
	}
	return resp.Data.Schema, nil
}

// LoadIntrospection reads a saved introspection response from disk.
func LoadIntrospection(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseIntrospection(raw)
}

var (
	decorations = strings.NewReplacer("[", "", "]", "", "!", "")
	listPattern = regexp.MustCompile(`^\[.+\]!?$`)
)

// DisplayName returns the decorated name, e.g. "[Person!]!".
func (t *TypeDescriptor) DisplayName() string {
	if t == nil {
		return ""
	}
	if t.Name != "" {
		return t.Name
	}
	switch t.Kind {
	case KindList:
		return "[" + t.OfType.DisplayName() + "]"
	case KindNonNull:
		return t.OfType.DisplayName() + "!"
	}
	return ""
}

// BaseName strips list and non-null decorations: "[Person!]!" -> "Person".
func (t *TypeDescriptor) BaseName() string {
	return decorations.Replace(t.DisplayName())
}

// IsList reports whether the type is a list, non-null or not.
func (t *TypeDescriptor) IsList() bool {
	return listPattern.MatchString(t.DisplayName())
}

// EnumNames returns the declared enum value names.
func (t *TypeDescriptor) EnumNames() []string {
	if t == nil || len(t.EnumValues) == 0 {
		return nil
	}
	names := make([]string, len(t.EnumValues))
	for i, v := range t.EnumValues {
		names[i] = v.Name
	}
	return names
}

// FieldNames returns the names of the attached fields.
func (t *TypeDescriptor) FieldNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// InputField returns the argument's input field with the given name.
func (a *ArgumentDescriptor) InputField(name string) *FieldDescriptor {
	for _, f := range a.InputFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Argument returns the operation argument with the given name.
func (q *QueryDefinition) Argument(name string) *ArgumentDescriptor {
	for _, a := range q.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Field returns the return-type field with the given name.
func (q *QueryDefinition) Field(name string) *FieldDescriptor {
	for _, f := range q.Type.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
