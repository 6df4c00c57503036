package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samwightt/archivist/pkg/assembly"
	"github.com/samwightt/archivist/pkg/diagnostic"
	"github.com/samwightt/archivist/pkg/gql"
	"github.com/samwightt/archivist/pkg/schema"
)

// formOptions are the flags shared by commands that build a search form.
type formOptions struct {
	pageURL string
	params  []string
}

// newEngine creates the assembly engine for op, seeded from the page URL
// flags.
func newEngine(op *schema.QueryDefinition, opts *formOptions) (*assembly.Engine, error) {
	engine := assembly.New(cfg.RequiredFields, cfg.OptionalFields)
	if opts.pageURL != "" {
		if err := engine.SeedFromQueryString(opts.pageURL); err != nil {
			return nil, err
		}
	}
	if len(opts.params) > 0 {
		values := url.Values{}
		for _, p := range opts.params {
			name, value, ok := strings.Cut(p, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("invalid --param %q, expected name=value\n%s", p,
					diagnostic.RenderFlag("param", p, 0, len(p), "missing '='"))
			}
			values.Add(name, value)
		}
		engine.SeedFromURL(values)
	}
	engine.SelectOperation(op)
	return engine, nil
}

// inputField returns the descriptor of field on arg, or nil when the
// operation does not declare it.
func inputField(op *schema.QueryDefinition, arg, field string) *schema.FieldDescriptor {
	a := op.Argument(arg)
	if a == nil {
		return nil
	}
	return a.InputField(field)
}

func fieldInfo(arg string, f *schema.FieldDescriptor, name, label string) FormFieldInfo {
	info := FormFieldInfo{Argument: arg, Name: name, Label: label}
	w := widgets.For(f)
	info.Widget = string(w.Kind)
	if f != nil {
		info.Type = f.Type.DisplayName()
		info.Options = f.Type.EnumNames()
		if info.Label == "" {
			info.Label = f.Label
		}
	}
	if info.Label == "" {
		info.Label = gql.CamelCaseToWords(name)
	}
	return info
}

func groupLabel(g assembly.RequiredGroup, i int) string {
	if g.Label != "" {
		return g.Label
	}
	return fmt.Sprintf("required #%d", i+1)
}

// formFields lists the default fields followed by the operation-specific
// ones.
func formFields(engine *assembly.Engine, op *schema.QueryDefinition) []FormFieldInfo {
	focus, hasFocus := engine.AutoFocus()

	var fields []FormFieldInfo
	addDefault := func(f assembly.Field, group string) {
		info := fieldInfo(gql.DefaultArgument, inputField(op, gql.DefaultArgument, f.Name), f.Name, f.Label)
		info.Group = group
		info.Value = engine.Value(gql.DefaultArgument, f.Name)
		info.Locked = engine.Seeded(f.Name)
		info.Autofocus = hasFocus && focus.Name == f.Name
		fields = append(fields, info)
	}
	for i, g := range engine.RequiredGroups() {
		for _, f := range g.Fields {
			addDefault(f, groupLabel(g, i))
		}
	}
	for _, f := range engine.OptionalFields() {
		addDefault(f, "optional")
	}

	for _, af := range engine.DisplayFields(op) {
		for _, f := range af.Fields {
			info := fieldInfo(af.Argument.Name, f, f.Name, "")
			info.Value = engine.Value(af.Argument.Name, f.Name)
			fields = append(fields, info)
		}
	}
	return fields
}

// fieldNames lists "field" for the default argument and "arg.field" for
// the others, as accepted by --set.
func fieldNames(engine *assembly.Engine, op *schema.QueryDefinition) []string {
	var names []string
	for _, f := range engine.DefaultFields() {
		names = append(names, f.Name)
	}
	for _, af := range engine.DisplayFields(op) {
		for _, f := range af.Fields {
			if af.Argument.Name == gql.DefaultArgument {
				names = append(names, f.Name)
			} else {
				names = append(names, af.Argument.Name+"."+f.Name)
			}
		}
	}
	return names
}

// setValue applies one --set flag: "field=value" targets the default
// argument, "arg.field=value" any other. Values are normalized by the
// field's widget.
func setValue(engine *assembly.Engine, op *schema.QueryDefinition, flag string) error {
	key, value, ok := strings.Cut(flag, "=")
	if !ok || key == "" {
		return fmt.Errorf("invalid --set %q, expected field=value\n%s", flag,
			diagnostic.RenderFlag("set", flag, 0, len(flag), "missing '='"))
	}

	arg, field := gql.DefaultArgument, key
	if a, f, ok := strings.Cut(key, "."); ok {
		arg, field = a, f
	}

	names := fieldNames(engine, op)
	known := false
	for _, n := range names {
		if n == key || (arg == gql.DefaultArgument && n == field) {
			known = true
			break
		}
	}
	if !known {
		msg := fmt.Sprintf("field '%s' does not exist on %s", key, op.Name)
		detail := diagnostic.RenderFlag("set", flag, 0, len(key), "unknown field")
		if suggestion := findClosest(key, names); suggestion != "" {
			detail += "\n" + diagnostic.RenderHelp(fmt.Sprintf("did you mean `%s`?", suggestion))
		}
		return fmt.Errorf("%s\n%s", msg, detail)
	}

	descriptor := inputField(op, arg, field)
	normalized, err := widgets.For(descriptor).Normalize(value, descriptor)
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", key, err,
			diagnostic.RenderFlag("set", flag, len(key)+1, len(value), err.Error()))
	}
	return engine.SetArgumentValue(arg, field, normalized)
}
