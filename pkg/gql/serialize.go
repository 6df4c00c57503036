package gql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// QueryObject maps an argument name to its field values. Empty strings are
// treated as unset.
type QueryObject map[string]map[string]string

// Clone returns a deep copy without the unset values.
func (q QueryObject) Clone() QueryObject {
	out := QueryObject{}
	for arg, values := range q {
		for field, v := range values {
			if v == "" {
				continue
			}
			if out[arg] == nil {
				out[arg] = map[string]string{}
			}
			out[arg][field] = v
		}
	}
	return out
}

// Get returns the value of field on arg, or "".
func (q QueryObject) Get(arg, field string) string {
	return q[arg][field]
}

// FieldNode is one field of a return-type projection.
type FieldNode struct {
	Name   string
	Fields FieldTree
}

// FieldTree is the projection of a return type, in schema order.
type FieldTree []FieldNode

// String renders "{ a b { c d } }". An empty tree renders as "".
func (t FieldTree) String() string {
	if len(t) == 0 {
		return ""
	}
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = n.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func (n FieldNode) String() string {
	if len(n.Fields) == 0 {
		return n.Name
	}
	return n.Name + " " + n.Fields.String()
}

// Serialize renders an operation call into a GraphQL query document:
//
//	{ people(query:{"name":"Ann"}) { id name } }
//
// Arguments are emitted in name order and arguments without any set value are
// omitted. The caller is responsible for only serializing submittable queries.
func Serialize(operation string, query QueryObject, fields FieldTree) (string, error) {
	args, err := argumentsString(query)
	if err != nil {
		return "", err
	}
	return "{ " + operation + args + fields.String() + " }", nil
}

// argumentsString formats "(arg_1:{...}, arg_2:{...}) ".
func argumentsString(query QueryObject) (string, error) {
	compact := query.Clone()
	parts := make([]string, 0, len(compact))
	for _, name := range sortedKeys(compact) {
		encoded, err := encodeJSON(compact[name])
		if err != nil {
			return "", fmt.Errorf("encode argument %s: %w", name, err)
		}
		parts = append(parts, name+":"+encoded)
	}
	return "(" + strings.Join(parts, ", ") + ") ", nil
}

// encodeJSON encodes with sorted keys, without HTML escaping or a trailing newline.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Literal renders the same call as Serialize using GraphQL input object
// literals, { people(query: {name: "Ann"}) { id name } }, so the document
// can be checked by a GraphQL validator. Values for which isEnum reports
// true are emitted as bare enum names.
func Literal(operation string, query QueryObject, fields FieldTree, isEnum func(arg, field string) bool) (string, error) {
	compact := query.Clone()
	args := make([]string, 0, len(compact))
	for _, arg := range sortedKeys(compact) {
		values := compact[arg]
		pairs := make([]string, 0, len(values))
		for _, field := range sortedKeys(values) {
			v := values[field]
			if isEnum == nil || !isEnum(arg, field) {
				encoded, err := encodeJSON(v)
				if err != nil {
					return "", fmt.Errorf("encode %s.%s: %w", arg, field, err)
				}
				v = encoded
			}
			pairs = append(pairs, field+": "+v)
		}
		args = append(args, arg+": {"+strings.Join(pairs, ", ")+"}")
	}

	var b strings.Builder
	b.WriteString("{ " + operation)
	if len(args) > 0 {
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	if fields := fields.String(); fields != "" {
		b.WriteString(" " + fields)
	}
	b.WriteString(" }")
	return b.String(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
