// Package render formats command output as JSON, plain text, pretty tables,
// or CSV.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatText   Format = "text"
	FormatPretty Format = "pretty"
	FormatCSV    Format = "csv"
)

var ValidFormats = []Format{FormatJSON, FormatText, FormatPretty, FormatCSV}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatText, FormatPretty, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (valid: json, text, pretty, csv)", s)
}

// Renderer renders Data in one of the formats. A format whose hook is nil is
// not supported for this data.
type Renderer[T any] struct {
	Data         []T
	TextFormat   func(T) string
	PrettyFormat func([]T) string

	// CSVHeader and CSVRecord enable CSV output.
	CSVHeader []string
	CSVRecord func(T) []string

	// JSONData, when set, is encoded instead of Data.
	JSONData any
}

func (r Renderer[T]) Render(format Format) (string, error) {
	switch format {
	case FormatJSON:
		return r.renderJSON()
	case FormatPretty:
		return r.renderPretty()
	case FormatText:
		return r.renderText()
	case FormatCSV:
		return r.renderCSV()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Write renders to w followed by a newline.
func (r Renderer[T]) Write(w io.Writer, format Format) error {
	out, err := r.Render(format)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	_, err = fmt.Fprintln(w, strings.TrimSuffix(out, "\n"))
	return err
}

func (r Renderer[T]) renderPretty() (string, error) {
	if r.PrettyFormat == nil {
		return "", fmt.Errorf("pretty format not defined for this type")
	}
	return r.PrettyFormat(r.Data), nil
}

func (r Renderer[T]) renderJSON() (string, error) {
	var v any = r.Data
	if r.JSONData != nil {
		v = r.JSONData
	}
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (r Renderer[T]) renderText() (string, error) {
	if r.TextFormat == nil {
		return "", fmt.Errorf("text format not defined for this type")
	}

	var lines []string
	for _, item := range r.Data {
		lines = append(lines, r.TextFormat(item))
	}
	return strings.Join(lines, "\n"), nil
}

func (r Renderer[T]) renderCSV() (string, error) {
	if r.CSVRecord == nil {
		return "", fmt.Errorf("csv format not defined for this type")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(r.CSVHeader) > 0 {
		if err := w.Write(r.CSVHeader); err != nil {
			return "", err
		}
	}
	for _, item := range r.Data {
		if err := w.Write(r.CSVRecord(item)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
