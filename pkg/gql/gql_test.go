package gql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelCaseToWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lastName", "Last name"},
		{"people", "People"},
		{"recordNumberOfBirth", "Record number of birth"},
		{"ID", "I d"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CamelCaseToWords(tt.in))
		})
	}
}

func TestSerialize_SingleArgument(t *testing.T) {
	query := QueryObject{"query": {"name": "Ann"}}
	fields := FieldTree{{Name: "id"}, {Name: "name"}}

	doc, err := Serialize("people", query, fields)
	require.NoError(t, err)
	assert.Equal(t, `{ people(query:{"name":"Ann"}) { id name } }`, doc)
}

func TestSerialize_NestedFields(t *testing.T) {
	query := QueryObject{"query": {"name": "Ann"}}
	fields := FieldTree{
		{Name: "id"},
		{Name: "address", Fields: FieldTree{{Name: "city"}, {Name: "zip"}}},
		{Name: "name"},
	}

	doc, err := Serialize("people", query, fields)
	require.NoError(t, err)
	assert.Equal(t, `{ people(query:{"name":"Ann"}) { id address { city zip } name } }`, doc)
}

func TestSerialize_MultipleArgumentsSortedAndEscaped(t *testing.T) {
	query := QueryObject{
		"query":  {"name": `A "quoted" <name>`, "born": "1901-01-01"},
		"filter": {"status": "ACTIVE"},
	}

	doc, err := Serialize("people", query, FieldTree{{Name: "id"}})
	require.NoError(t, err)
	assert.Equal(t,
		`{ people(filter:{"status":"ACTIVE"}, query:{"born":"1901-01-01","name":"A \"quoted\" <name>"}) { id } }`,
		doc)
}

func TestSerialize_OmitsUnsetArguments(t *testing.T) {
	query := QueryObject{
		"query":  {"name": "Ann", "born": ""},
		"filter": {"status": ""},
		"empty":  {},
	}

	doc, err := Serialize("people", query, FieldTree{{Name: "id"}})
	require.NoError(t, err)
	assert.Equal(t, `{ people(query:{"name":"Ann"}) { id } }`, doc)
}

func TestSerialize_NoFields(t *testing.T) {
	doc, err := Serialize("people", QueryObject{"query": {"name": "Ann"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{ people(query:{"name":"Ann"})  }`, doc)
}

func TestQueryObject_CloneDropsUnset(t *testing.T) {
	q := QueryObject{"query": {"a": "1", "b": ""}, "other": {"c": ""}}
	clone := q.Clone()

	assert.Equal(t, QueryObject{"query": {"a": "1"}}, clone)

	clone["query"]["a"] = "changed"
	assert.Equal(t, "1", q.Get("query", "a"))
}

func TestLiteral(t *testing.T) {
	query := QueryObject{
		"query":  {"name": `Ann "Jr"`, "status": "ACTIVE"},
		"filter": {"office": "North"},
		"empty":  {"x": ""},
	}
	fields := FieldTree{{Name: "id"}, {Name: "name"}}
	isEnum := func(arg, field string) bool { return arg == "query" && field == "status" }

	got, err := Literal("people", query, fields, isEnum)
	require.NoError(t, err)
	assert.Equal(t, `{ people(filter: {office: "North"}, query: {name: "Ann \"Jr\"", status: ACTIVE}) { id name } }`, got)
}

func TestLiteral_NoArgumentsNoFields(t *testing.T) {
	got, err := Literal("people", QueryObject{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "{ people }", got)
}
