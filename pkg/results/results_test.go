package results

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samwightt/archivist/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalar(name string) *schema.TypeDescriptor {
	return &schema.TypeDescriptor{Kind: schema.KindScalar, Name: name}
}

func birthRecords() *schema.QueryDefinition {
	return &schema.QueryDefinition{
		Name: "birthRecords",
		Type: &schema.TypeDescriptor{
			Name: "[BirthRecord!]!",
			Fields: []*schema.FieldDescriptor{
				{Name: "recordNumber", Type: scalar("Int!")},
				{Name: "lastName", Type: scalar("String")},
				{Name: "weight", Type: scalar("Float64")},
				{Name: "living", Type: scalar("Boolean")},
				{Name: "birthDate", Type: scalar("Date")},
				{Name: "registeredAt", Type: scalar("Time")},
				{Name: "status", Type: &schema.TypeDescriptor{
					Kind:       schema.KindEnum,
					Name:       "Status",
					EnumValues: []schema.EnumValue{{Name: "ACTIVE"}, {Name: "ARCHIVED"}},
				}},
				{Name: "office", Type: scalar("Office")},
			},
		},
	}
}

func TestColumns_TypeTable(t *testing.T) {
	cols := Columns(birthRecords(), nil)
	require.Len(t, cols, 8, "one column per return type field")

	byField := map[string]Column{}
	for _, c := range cols {
		byField[c.Field] = c
	}

	assert.Equal(t, Column{Field: "recordNumber", HeaderName: "Record number", Type: TypeNumber, Width: 100}, byField["recordNumber"])
	assert.Equal(t, TypeString, byField["lastName"].Type)
	assert.Equal(t, 180, byField["lastName"].Width)
	assert.Equal(t, TypeNumber, byField["weight"].Type)
	assert.Equal(t, TypeBoolean, byField["living"].Type)
	assert.Equal(t, TypeDate, byField["birthDate"].Type)
	assert.Equal(t, 100, byField["birthDate"].Width)
	assert.Equal(t, TypeDateTime, byField["registeredAt"].Type)
	assert.Equal(t, 180, byField["registeredAt"].Width)
	assert.Equal(t, TypeSingleSelect, byField["status"].Type)
	assert.Equal(t, []string{"ACTIVE", "ARCHIVED"}, byField["status"].ValueOptions)
	assert.Equal(t, TypeUntyped, byField["office"].Type)
	assert.Equal(t, "Registered at", byField["registeredAt"].HeaderName)
}

func TestColumns_Overrides(t *testing.T) {
	cols := Columns(birthRecords(), map[string]ColumnType{"Office": TypeString, "Int": TypeString})
	assert.Equal(t, TypeString, cols[0].Type)
	assert.Equal(t, TypeString, cols[7].Type)
}

func TestColumns_NilDefinition(t *testing.T) {
	assert.Nil(t, Columns(nil, nil))
}

func TestColumnValue_ParsesDates(t *testing.T) {
	date := Column{Type: TypeDate}
	v := date.Value("1980-03-14")
	require.IsType(t, time.Time{}, v)
	assert.Equal(t, 1980, v.(time.Time).Year())

	dt := Column{Type: TypeDateTime}
	v = dt.Value("2024-05-01T10:30:00Z")
	require.IsType(t, time.Time{}, v)
	assert.Equal(t, 10, v.(time.Time).Hour())

	assert.Equal(t, "not a date", date.Value("not a date"))
	assert.Nil(t, date.Value(nil))
	assert.Equal(t, "x", Column{Type: TypeString}.Value("x"))
}

func TestColumnFormat(t *testing.T) {
	assert.Equal(t, "1980-03-14", Column{Type: TypeDate}.Format("1980-03-14T00:00:00Z"))
	assert.Equal(t, "2024-05-01 10:30", Column{Type: TypeDateTime}.Format("2024-05-01T10:30:00Z"))
	assert.Equal(t, "42", Column{Type: TypeNumber}.Format(json.Number("42")))
	assert.Equal(t, "true", Column{}.Format(true))
	assert.Equal(t, `{"a":1}`, Column{}.Format(map[string]any{"a": 1}))
	assert.Equal(t, "", Column{}.Format(nil))
}

const peopleResponse = `{"data":{"people":[
	{"lastName":"Doe","firstName":"Jane","age":42},
	{"lastName":"Roe","firstName":"Rick","age":7},
	{"lastName":"Poe","firstName":"Edgar","age":40}
]}}`

func TestNormalize_IndexIDs(t *testing.T) {
	rows, err := Normalize([]byte(peopleResponse), "people", nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, "0", rows[0].ID)
	assert.Equal(t, "2", rows[2].ID)
	assert.Equal(t, json.Number("42"), rows[0].Get("age"), "values are kept unchanged")
}

func TestNormalize_CompositeIDs(t *testing.T) {
	rows, err := Normalize([]byte(peopleResponse), "people", []string{"lastName", "firstName"})
	require.NoError(t, err)
	assert.Equal(t, "Doe / Jane", rows[0].ID)
	assert.Equal(t, "Roe / Rick", rows[1].ID)

	r, ok := Find(rows, "Poe / Edgar")
	require.True(t, ok)
	assert.Equal(t, 2, r.Index)
	_, ok = Find(rows, "nobody")
	assert.False(t, ok)
}

func TestNormalize_KeepsRecordID(t *testing.T) {
	rows, err := Normalize([]byte(`{"data":{"people":[{"id":"p-9"}]}}`), "people", nil)
	require.NoError(t, err)
	assert.Equal(t, "0", rows[0].ID)
	assert.Equal(t, "p-9", rows[0].Get("id"))
}

func TestNormalize_EmptyPayloads(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"data":null}`,
		`{"data":{}}`,
		`{"data":{"people":null}}`,
		`{"data":{"people":[]}}`,
	} {
		rows, err := Normalize([]byte(body), "people", nil)
		require.NoError(t, err, body)
		assert.NotNil(t, rows, body)
		assert.Empty(t, rows, body)
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize([]byte(`not json`), "people", nil)
	assert.ErrorContains(t, err, "malformed response")

	_, err = Normalize([]byte(`{"data":{"people":{"id":1}}}`), "people", nil)
	assert.ErrorContains(t, err, "not a list of records")

	_, err = Normalize([]byte(`{"errors":[{"message":"boom"},{"message":"bang"}]}`), "people", nil)
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "graphql: boom; bang", err.Error())
}

func TestNormalize_PartialDataWithErrors(t *testing.T) {
	rows, err := Normalize([]byte(`{"data":{"people":[{"a":1}]},"errors":[{"message":"partial"}]}`), "people", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStateAndTitle(t *testing.T) {
	assert.Equal(t, StateFetching, StateOf(nil, nil))
	assert.Equal(t, "Fetching results", Title(nil, nil))

	assert.Equal(t, StateEmpty, StateOf([]Row{}, nil))
	assert.Equal(t, "No results", Title([]Row{}, nil))

	assert.Equal(t, "1 result", Title([]Row{{}}, nil))

	rows, err := Normalize([]byte(peopleResponse), "people", nil)
	require.NoError(t, err)
	assert.Equal(t, StatePopulated, StateOf(rows, nil))
	assert.Equal(t, "3 results", Title(rows, nil))

	assert.Equal(t, StateFailed, StateOf(nil, assert.AnError))
	assert.Equal(t, "Search failed", Title(nil, assert.AnError))
	assert.Equal(t, "failed", StateFailed.String())
}

func TestRecord(t *testing.T) {
	cols := []Column{
		{Field: "id", HeaderName: "Id"},
		{Field: "lastName", HeaderName: "Last name"},
		{Field: "firstName", HeaderName: "First name"},
		{Field: "createdAt", HeaderName: "Created at"},
		{Field: "birthDate", HeaderName: "Birth date", Type: TypeDate},
		{Field: "actions", HeaderName: "Actions"},
	}
	row := Row{ID: "Doe / Jane", Index: 1, Values: map[string]any{
		"id":        "p-1",
		"lastName":  "Doe",
		"firstName": "",
		"createdAt": "2020-01-01",
		"birthDate": "1980-03-14",
		"actions":   "x",
	}}

	d := Record("Birth records", row, cols, "birthDate")
	assert.Equal(t, "Birth records 2", d.Heading)
	assert.Equal(t, "2020-01-01", d.CreatedAt)
	assert.Equal(t, []Entry{
		{Field: "lastName", Label: "Last name", Value: "Doe"},
		{Field: "birthDate", Label: "Birth date", Value: "1980-03-14", Highlighted: true},
	}, d.Entries)
}

func TestFilter(t *testing.T) {
	rows, err := Normalize([]byte(peopleResponse), "people", nil)
	require.NoError(t, err)

	out, err := Filter(rows, `.[] | select(.age > 18) | .lastName`)
	require.NoError(t, err)
	assert.Equal(t, []any{"Doe", "Poe"}, out)

	out, err = Filter(rows, `length`)
	require.NoError(t, err)
	assert.Equal(t, []any{3}, out)

	out, err = Filter(nil, `.[]`)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFilter_Errors(t *testing.T) {
	_, err := Filter(nil, `.[`)
	assert.ErrorContains(t, err, "invalid jq expression")

	_, err = Filter([]Row{{Values: map[string]any{"a": "x"}}}, `.[] | .a + 1`)
	assert.ErrorContains(t, err, "jq:")
}
