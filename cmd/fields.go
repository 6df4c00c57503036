/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samwightt/archivist/pkg/client"
	"github.com/samwightt/archivist/pkg/logging"
	"github.com/samwightt/archivist/pkg/render"
	"github.com/spf13/cobra"
)

type fieldsOptions struct {
	formOptions
	required bool
	argument string
	widget   string
}

func formatFieldName(field FormFieldInfo) string {
	if field.Group != "" {
		return field.Name
	}
	return field.Argument + "." + field.Name
}

func formatFieldState(field FormFieldInfo) string {
	var parts []string
	if field.Group != "" {
		parts = append(parts, field.Group)
	}
	if field.Locked {
		parts = append(parts, "locked")
	}
	if field.Autofocus {
		parts = append(parts, "autofocus")
	}
	return strings.Join(parts, ", ")
}

func formatFieldText(field FormFieldInfo) string {
	line := fmt.Sprintf("%s: %s [%s]", formatFieldName(field), field.Type, field.Widget)
	if field.Type == "" {
		line = fmt.Sprintf("%s [%s]", formatFieldName(field), field.Widget)
	}
	if field.Value != "" {
		line += " = " + field.Value
	}
	if state := formatFieldState(field); state != "" {
		line += " (" + state + ")"
	}
	return line
}

func formatFieldsPretty(fields []FormFieldInfo) string {
	t := makeTable()

	for _, field := range fields {
		typeStr := field.Type
		if len(field.Options) > 0 {
			typeStr += " (" + strings.Join(field.Options, " | ") + ")"
		}
		t.Row(formatFieldName(field), field.Label, typeStr, field.Widget, field.Value, formatFieldState(field))
	}
	t.Headers("field", "label", "type", "widget", "value", "state")

	return t.String()
}

func NewFieldsCmd() *cobra.Command {
	opts := &fieldsOptions{}

	cmd := &cobra.Command{
		Use:   "fields <operation>",
		Short: "Lists the search form fields of an operation",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeOperations(cmd.Context(), toComplete)
		},
		Args: cobra.ExactArgs(1),
		Long: `Lists the search form fields of an operation.

The configured required and optional fields come first, in configuration
order, followed by the operation's own argument input fields that are not
already shown. Each field carries the input widget chosen for its type
(text, date, date-range, time, time-range, enum).

Values seeded from a page URL (--url, --param) are shown as locked, and the
field that would receive focus is marked "autofocus".

Output formats:
  text    "lastName: String [text] (Name)", "filter.office: String [text]"
  json    [{"argument": "query", "name": "lastName", "widget": "text", ...}, ...]
  pretty  Formatted table (default in terminal)`,
		Example: `  # See the form of an operation
  archivist fields birthRecords

  # Only the required fields
  archivist fields people --required

  # Fields as they appear when opened from a page URL
  archivist fields people --url "?status=ACTIVE"

  # Only date inputs
  archivist fields birthRecords --widget date`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.pageURL, "url", "", "Page URL or query string whose parameters pre-fill the form")
	cmd.Flags().StringArrayVar(&opts.params, "param", nil, "URL parameter name=value pre-filling the form (can be specified multiple times)")
	cmd.Flags().BoolVar(&opts.required, "required", false, "Filter to only show required fields")
	cmd.Flags().StringVar(&opts.argument, "argument", "", "Filter to fields of the given argument")
	cmd.Flags().StringVar(&opts.widget, "widget", "", "Filter to fields using the given widget")

	return cmd
}

func runFields(cmd *cobra.Command, args []string, opts *fieldsOptions) error {
	_, op, err := loadOperation(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	engine, err := newEngine(op, &opts.formOptions)
	if err != nil {
		return err
	}

	fields := filterSlice(formFields(engine, op), func(f FormFieldInfo) bool {
		if opts.required && (f.Group == "" || f.Group == "optional") {
			return false
		}
		if opts.argument != "" && f.Argument != opts.argument {
			return false
		}
		if opts.widget != "" && f.Widget != opts.widget {
			return false
		}
		return true
	})

	if len(fields) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No fields found that match the filters.")
	}

	renderer := render.Renderer[FormFieldInfo]{
		Data:         fields,
		TextFormat:   formatFieldText,
		PrettyFormat: formatFieldsPretty,
		CSVHeader:    []string{"field", "label", "type", "widget", "value", "state"},
		CSVRecord: func(f FormFieldInfo) []string {
			return []string{formatFieldName(f), f.Label, f.Type, f.Widget, f.Value, formatFieldState(f)}
		},
	}
	return renderer.Write(cmd.OutOrStdout(), outputFormat)
}

func completeOperations(ctx context.Context, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Completion skips PersistentPreRunE.
	if cfg == nil {
		c, err := loadConfig(false)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		cfg, logger = c, logging.Discard()
		if endpointURL != "" {
			cfg.URL = endpointURL
		}
		if catalogCache, err = client.NewCatalogCache(cfg.CacheSize); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	catalog, err := loadCliForCatalog(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	outputNames := []string{}
	for _, name := range catalog.Names() {
		if strings.Contains(strings.ToLower(name), strings.ToLower(toComplete)) {
			outputNames = append(outputNames, name)
		}
	}

	sort.Strings(outputNames)

	return outputNames, cobra.ShellCompDirectiveNoFileComp
}

// filterSlice returns a new slice containing only the elements that satisfy the predicate.
func filterSlice[T any](items []T, predicate func(T) bool) []T {
	var result []T
	for _, item := range items {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}
