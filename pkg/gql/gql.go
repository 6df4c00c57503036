// Package gql holds the small GraphQL helpers shared by the schema processor,
// the query assembly engine and the transport: label formatting, the fixed
// introspection query and the query-document serializer.
package gql

import (
	"strings"
	"unicode"
)

// DefaultArgument is the argument that receives the default (configured)
// search fields, e.g. people(query: {...}).
const DefaultArgument = "query"

// IntrospectionQuery selects the query operations and the full type list.
// Type references carry kind/ofType so wrapped types can be rebuilt when the
// server does not flatten them into decorated names like "[Person!]".
const IntrospectionQuery = `{
  __schema {
    queryType {
      name
      fields {
        name
        description
        args { name type { ...TypeRef } }
        type { ...TypeRef description }
      }
    }
    types {
      kind
      name
      inputFields { name type { ...TypeRef } }
      fields { name type { ...TypeRef } }
      enumValues { name }
    }
  }
}
fragment TypeRef on __Type {
  kind
  name
  ofType { kind name ofType { kind name ofType { kind name } } }
}`

// CamelCaseToWords turns a field name into a label: "lastName" -> "Last name".
func CamelCaseToWords(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(runes[0]))
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
