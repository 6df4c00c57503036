package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IDSeparator joins identifier field values into a row id.
const IDSeparator = " / "

// Row is one record of a search response.
type Row struct {
	// ID is the identifier composite, or the zero-based position of the
	// record when no identifier fields are configured.
	ID string `json:"id"`
	// Index is the position of the record in the response.
	Index  int            `json:"index"`
	Values map[string]any `json:"values"`
}

// Get returns the value of field.
func (r Row) Get(field string) any {
	return r.Values[field]
}

// GraphQLError is one entry of a response's "errors" list.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// ResponseError is returned when a response carries errors and no data.
type ResponseError struct {
	Errors []GraphQLError
}

func (e *ResponseError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

type response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []GraphQLError             `json:"errors"`
}

var null = []byte("null")

// Normalize decodes a search response for operation into rows. A response
// with absent or null data yields an empty, non-nil slice.
func Normalize(body []byte, operation string, idFields []string) ([]Row, error) {
	var resp response
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if resp.Data == nil && len(resp.Errors) > 0 {
		return nil, &ResponseError{Errors: resp.Errors}
	}

	rows := []Row{}
	raw, ok := resp.Data[operation]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), null) {
		return rows, nil
	}

	var records []map[string]any
	dec = json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("malformed response: %s is not a list of records: %w", operation, err)
	}
	for i, record := range records {
		if record == nil {
			record = map[string]any{}
		}
		rows = append(rows, Row{ID: rowID(record, i, idFields), Index: i, Values: record})
	}
	return rows, nil
}

func rowID(record map[string]any, index int, idFields []string) string {
	if len(idFields) == 0 {
		return strconv.Itoa(index)
	}
	parts := make([]string, len(idFields))
	for i, f := range idFields {
		parts[i] = Text(record[f])
	}
	return strings.Join(parts, IDSeparator)
}

// Find returns the row with the given id.
func Find(rows []Row, id string) (Row, bool) {
	for _, r := range rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// ErrNoRecord is returned when a record id does not match any row.
var ErrNoRecord = errors.New("no such record")
