// Package widget decides how each search input is captured and normalizes the
// values typed by the user.
package widget

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samwightt/archivist/pkg/registry"
	"github.com/samwightt/archivist/pkg/schema"
)

type Kind string

const (
	KindText      Kind = "text"
	KindDate      Kind = "date"
	KindDateRange Kind = "date-range"
	KindTime      Kind = "time"
	KindTimeRange Kind = "time-range"
	KindEnum      Kind = "enum"
)

// RangeSeparator joins the two ends of a range value: "2020-01-01...2020-12-31".
const RangeSeparator = "..."

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02T15:04"
)

var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	timeLayout,
	"2006-01-02 15:04",
	dateLayout,
}

// Widget captures one kind of input.
type Widget struct {
	Kind        Kind
	Placeholder string
	normalize   func(value string, field *schema.FieldDescriptor) (string, error)
}

// Normalize validates value and returns it in the form the backend expects.
// An empty result means the field is unset.
func (w Widget) Normalize(value string, field *schema.FieldDescriptor) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if w.normalize == nil {
		return value, nil
	}
	return w.normalize(value, field)
}

var (
	Text = Widget{Kind: KindText, Placeholder: "text"}
	Date = Widget{Kind: KindDate, Placeholder: "YYYY-MM-DD", normalize: func(v string, _ *schema.FieldDescriptor) (string, error) {
		return formatMoment(v, dateLayout)
	}}
	Time = Widget{Kind: KindTime, Placeholder: "YYYY-MM-DDTHH:MM", normalize: func(v string, _ *schema.FieldDescriptor) (string, error) {
		return formatMoment(v, timeLayout)
	}}
	DateRange = Widget{Kind: KindDateRange, Placeholder: "YYYY-MM-DD...YYYY-MM-DD", normalize: func(v string, _ *schema.FieldDescriptor) (string, error) {
		return formatRange(v, dateLayout)
	}}
	TimeRange = Widget{Kind: KindTimeRange, Placeholder: "YYYY-MM-DDTHH:MM...YYYY-MM-DDTHH:MM", normalize: func(v string, _ *schema.FieldDescriptor) (string, error) {
		return formatRange(v, timeLayout)
	}}
	Enum = Widget{Kind: KindEnum, Placeholder: "one of the listed values", normalize: normalizeEnum}
)

// New builds a widget. normalize may be nil for free text.
func New(kind Kind, placeholder string, normalize func(value string, field *schema.FieldDescriptor) (string, error)) Widget {
	return Widget{Kind: kind, Placeholder: placeholder, normalize: normalize}
}

func parseMoment(v string) (time.Time, error) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date '%s'", v)
}

func formatMoment(v, layout string) (string, error) {
	t, err := parseMoment(v)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// formatRange accepts "start...end" where either side may be empty, and a
// single value meaning the start of the range.
func formatRange(v, layout string) (string, error) {
	start, end, _ := strings.Cut(v, RangeSeparator)
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)

	var bounds [2]time.Time
	out := [2]string{}
	for i, side := range []string{start, end} {
		if side == "" {
			continue
		}
		t, err := parseMoment(side)
		if err != nil {
			return "", err
		}
		bounds[i] = t
		out[i] = t.Format(layout)
	}
	if out[0] == "" && out[1] == "" {
		return "", nil
	}
	if out[0] != "" && out[1] != "" && bounds[0].After(bounds[1]) {
		return "", fmt.Errorf("range start %s is after its end %s", out[0], out[1])
	}
	return out[0] + RangeSeparator + out[1], nil
}

func normalizeEnum(v string, field *schema.FieldDescriptor) (string, error) {
	var names []string
	if field != nil {
		names = field.Type.EnumNames()
	}
	for _, name := range names {
		if strings.EqualFold(name, v) {
			return name, nil
		}
	}
	return "", fmt.Errorf("invalid value '%s' (valid: %s)", v, strings.Join(names, ", "))
}

// Set is the registry of input widgets, built once and shared by callers.
type Set struct {
	reg   *registry.Registry[*schema.FieldDescriptor, Widget]
	kinds map[Kind]Widget
}

// Matcher reports whether a widget can capture field.
type Matcher func(field *schema.FieldDescriptor) bool

// TypeNamed matches fields whose base type name is one of names.
func TypeNamed(names ...string) Matcher {
	return func(f *schema.FieldDescriptor) bool {
		return f != nil && f.Type != nil && slices.Contains(names, f.Type.BaseName())
	}
}

func anyField(*schema.FieldDescriptor) bool { return true }

func hasEnumValues(f *schema.FieldDescriptor) bool {
	return f != nil && f.Type != nil && len(f.Type.EnumValues) > 0
}

// isTimeRange requires both ends of the range to be declared.
func isTimeRange(f *schema.FieldDescriptor) bool {
	return TypeNamed("TimeRange")(f) && len(f.Type.Fields) == 2
}

// NewSet registers the built-in widgets.
func NewSet() *Set {
	s := &Set{
		reg:   registry.New[*schema.FieldDescriptor, Widget](),
		kinds: map[Kind]Widget{},
	}
	s.Register("text", Text, 1, anyField)
	s.Register("enum", Enum, 40, hasEnumValues)
	s.Register("date", Date, 50, TypeNamed("Date"))
	s.Register("time", Time, 50, TypeNamed("Time"))
	s.Register("date-range", DateRange, 50, TypeNamed("DateRange"))
	s.Register("time-range", TimeRange, 50, isTimeRange)
	return s
}

// Register adds a widget competing for the fields matched by match.
func (s *Set) Register(name string, w Widget, confidence int, match Matcher) {
	s.kinds[w.Kind] = w
	s.reg.Register(name, func(f *schema.FieldDescriptor) (Widget, int, bool) {
		if !match(f) {
			return Widget{}, 0, false
		}
		return w, confidence, true
	})
}

// For returns the widget of field: the kind decided during schema processing
// when present, otherwise the best match, falling back to Text.
func (s *Set) For(field *schema.FieldDescriptor) Widget {
	if field != nil && field.Widget != "" {
		if w, ok := s.kinds[Kind(field.Widget)]; ok {
			return w
		}
	}
	if w, ok := s.reg.Resolve(field); ok {
		return w
	}
	return Text
}

// KindOf is the schema.WithWidgetResolver hook.
func (s *Set) KindOf(field *schema.FieldDescriptor) string {
	w, ok := s.reg.Resolve(field)
	if !ok {
		return string(KindText)
	}
	return string(w.Kind)
}

// Lookup returns the widget registered for kind.
func (s *Set) Lookup(kind Kind) (Widget, bool) {
	w, ok := s.kinds[kind]
	return w, ok
}
