// Package resource renders documentation resources: JSON objects become
// titled sections, anything else is shown as plain text.
package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samwightt/archivist/pkg/registry"
)

var (
	sectionTitleStyle = lipgloss.NewStyle().Bold(true)
	sectionBodyStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("245"))
)

// Section is one top-level key of a JSON object resource.
type Section struct {
	Key   string
	Value any
}

// Document is a JSON object resource with its keys in source order.
type Document []Section

// Displayer renders a decoded resource.
type Displayer func(resource any) string

// Decode turns raw content into a Document when it is a JSON object and into
// a string otherwise.
func Decode(raw []byte) any {
	if doc, err := decodeObject(raw); err == nil {
		return doc
	}
	return string(raw)
}

func decodeObject(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}

	doc := Document{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		doc = append(doc, Section{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return doc, nil
}

// Registry picks a displayer for a decoded resource.
type Registry struct {
	reg *registry.Registry[any, Displayer]
}

// NewRegistry registers the JSON and plain-text displayers.
func NewRegistry() *Registry {
	reg := registry.New[any, Displayer]()
	reg.Register("text", func(resource any) (Displayer, int, bool) {
		if resource == nil {
			return nil, 0, false
		}
		return displayText, 10, true
	})
	reg.Register("json", func(resource any) (Displayer, int, bool) {
		if _, ok := resource.(Document); ok {
			return displayDocument, 50, true
		}
		return nil, 0, false
	})
	return &Registry{reg: reg}
}

// Register adds a displayer resolver.
func (r *Registry) Register(name string, fn registry.Resolver[any, Displayer]) {
	r.reg.Register(name, fn)
}

// Render displays resource with the best displayer. ok is false when nothing
// can display it, e.g. while the resource is still loading.
func (r *Registry) Render(resource any) (string, bool) {
	display, ok := r.reg.Resolve(resource)
	if !ok {
		return "", false
	}
	return display(resource), true
}

func displayText(resource any) string {
	return strings.TrimRight(fmt.Sprint(resource), "\n")
}

func displayDocument(resource any) string {
	doc := resource.(Document)
	blocks := make([]string, 0, len(doc))
	for _, s := range doc {
		blocks = append(blocks, sectionTitleStyle.Render(s.Key)+"\n"+sectionBodyStyle.Render(valueText(s.Value)))
	}
	return strings.Join(blocks, "\n\n")
}

func valueText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return ""
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprint(v)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}
