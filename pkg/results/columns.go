// Package results turns GraphQL search responses into grid rows and columns.
package results

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samwightt/archivist/pkg/gql"
	"github.com/samwightt/archivist/pkg/schema"
)

// ColumnType is the display type of a column.
type ColumnType string

const (
	TypeUntyped      ColumnType = ""
	TypeNumber       ColumnType = "number"
	TypeString       ColumnType = "string"
	TypeBoolean      ColumnType = "boolean"
	TypeDate         ColumnType = "date"
	TypeDateTime     ColumnType = "dateTime"
	TypeSingleSelect ColumnType = "singleSelect"
)

// ScalarTypes maps GraphQL scalar names to column types.
var ScalarTypes = map[string]ColumnType{
	"Int":     TypeNumber,
	"Int64":   TypeNumber,
	"Float":   TypeNumber,
	"Float64": TypeNumber,
	"String":  TypeString,
	"Boolean": TypeBoolean,
	"Date":    TypeDate,
	"Time":    TypeDateTime,
}

const (
	wideColumn    = 180
	defaultColumn = 100
)

// Column describes one grid column.
type Column struct {
	Field        string     `json:"field"`
	HeaderName   string     `json:"headerName"`
	Type         ColumnType `json:"type,omitempty"`
	ValueOptions []string   `json:"valueOptions,omitempty"`
	Width        int        `json:"width"`
}

// Columns derives one column per field of the operation's return type.
// overrides maps scalar names to column types and wins over ScalarTypes.
func Columns(def *schema.QueryDefinition, overrides map[string]ColumnType) []Column {
	if def == nil || def.Type == nil {
		return nil
	}
	columns := make([]Column, 0, len(def.Type.Fields))
	for _, f := range def.Type.Fields {
		typeName := f.Type.BaseName()
		col := Column{
			Field:      f.Name,
			HeaderName: gql.CamelCaseToWords(f.Name),
			Width:      defaultColumn,
		}
		if typeName == "String" || typeName == "Time" {
			col.Width = wideColumn
		}
		if t, ok := overrides[typeName]; ok {
			col.Type = t
		} else if t, ok := ScalarTypes[typeName]; ok {
			col.Type = t
		} else if names := f.Type.EnumNames(); names != nil {
			col.Type = TypeSingleSelect
		}
		if col.Type == TypeSingleSelect {
			col.ValueOptions = f.Type.EnumNames()
		}
		columns = append(columns, col)
	}
	return columns
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Value returns the typed value of raw for this column. Date and dateTime
// strings are parsed into time.Time; values that do not parse are returned
// unchanged.
func (c Column) Value(raw any) any {
	if c.Type != TypeDate && c.Type != TypeDateTime {
		return raw
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return raw
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return raw
}

// Format renders raw for display in this column.
func (c Column) Format(raw any) string {
	switch v := c.Value(raw).(type) {
	case time.Time:
		if c.Type == TypeDate {
			return v.Format(time.DateOnly)
		}
		return v.Format("2006-01-02 15:04")
	default:
		return Text(v)
	}
}

// Text renders a decoded JSON value as plain text. Objects and lists are
// rendered as compact JSON.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool, float64, int:
		return fmt.Sprint(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
