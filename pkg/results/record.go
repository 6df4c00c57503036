package results

import (
	"fmt"
	"slices"
)

var hiddenFields = []string{"id", "actions", "createdAt"}

// Entry is one label/value line of a record detail.
type Entry struct {
	Field       string `json:"field"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Highlighted bool   `json:"highlighted,omitempty"`
}

// Detail is the drill-down view of one row.
type Detail struct {
	Heading   string  `json:"heading"`
	CreatedAt string  `json:"createdAt,omitempty"`
	Entries   []Entry `json:"entries"`
}

// Record builds the detail of row in column order. The heading is the data
// source label followed by the one-based record number; id, actions,
// createdAt and empty values are not listed.
func Record(source string, row Row, columns []Column, highlighted string) Detail {
	d := Detail{
		Heading:   fmt.Sprintf("%s %d", source, row.Index+1),
		CreatedAt: Text(row.Get("createdAt")),
	}
	for _, c := range columns {
		if slices.Contains(hiddenFields, c.Field) {
			continue
		}
		v := c.Format(row.Get(c.Field))
		if v == "" {
			continue
		}
		d.Entries = append(d.Entries, Entry{
			Field:       c.Field,
			Label:       c.HeaderName,
			Value:       v,
			Highlighted: c.Field == highlighted,
		})
	}
	return d
}
