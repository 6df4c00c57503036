package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samwightt/archivist/pkg/assembly"
	"github.com/samwightt/archivist/pkg/client"
	"github.com/samwightt/archivist/pkg/render"
	"github.com/samwightt/archivist/pkg/results"
	"github.com/samwightt/archivist/pkg/schema"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	formOptions
	set       []string
	dryRun    bool
	record    string
	highlight string
	jq        string
	exportDir string
}

var (
	headingStyle   = lipgloss.NewStyle().Bold(true)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

func NewSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <operation>",
		Short: "Runs a search and prints the matching records",
		Long: `Assembles a search from field values, sends it to the GraphQL endpoint, and
prints the records it returns.

Values are given with --set: "field=value" fills a field of the "query"
argument, "argument.field=value" any other argument. Values are checked and
normalized by the field's widget: dates as 2006-01-02, times as
2006-01-02T15:04, ranges as start...end (either end optional), enum values
case-insensitively.

A search is only sent when at least one required field group is satisfied.
Values seeded from a page URL (--url, --param) cannot be changed with --set.

With -s, the search is type-checked against the SDL schema before it is
sent. --dry-run prints the query document without sending it.

Output formats:
  text    One tab-separated line per record, in column order
  json    [{"id": "0", "index": 0, "values": {...}}, ...]
  pretty  Formatted table (default in terminal)
  csv     Header line and one line per record`,
		Example: `  # Search by name
  archivist search people --set lastName=Doe --set firstName=Jane

  # Open the search from a page URL and complete it
  archivist search people --url "https://archive.example/?status=active" --set recordNumber=42

  # Show one record in detail, highlighting a field
  archivist search birthRecords --set recordNumber=42 --record 0 --highlight registeredAt

  # Shape the results with jq
  archivist search people --set lastName=Doe --set firstName=Jane --jq '.[] | .firstName'

  # Export the results as CSV named after the search
  archivist search people --set lastName=Doe --set firstName=Jane --export ./exports`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeOperations(cmd.Context(), toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "Field value as field=value or argument.field=value (can be specified multiple times)")
	cmd.Flags().StringVar(&opts.pageURL, "url", "", "Page URL or query string whose parameters pre-fill the form")
	cmd.Flags().StringArrayVar(&opts.params, "param", nil, "URL parameter name=value pre-filling the form (can be specified multiple times)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the query document without sending it")
	cmd.Flags().StringVar(&opts.record, "record", "", "Show the detail of the record with the given id")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "Field to highlight in the record detail")
	cmd.Flags().StringVar(&opts.jq, "jq", "", "jq expression applied to the list of records")
	cmd.Flags().StringVar(&opts.exportDir, "export", "", "Directory to write the results to as CSV")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string, opts *searchOptions) error {
	if opts.highlight != "" && opts.record == "" {
		return fmt.Errorf("--highlight requires --record")
	}

	_, op, err := loadOperation(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	engine, err := newEngine(op, &opts.formOptions)
	if err != nil {
		return err
	}
	for _, s := range opts.set {
		if err := setValue(engine, op, s); err != nil {
			return err
		}
	}

	search, err := engine.Submit()
	if err != nil {
		return err
	}
	document, err := search.Document()
	if err != nil {
		return err
	}

	if cmd.Flag("schema").Changed {
		if err := validateSearch(cmd, search); err != nil {
			return err
		}
	}

	if opts.dryRun {
		return printSearch(cmd, engine, search, document)
	}
	if err := requireEndpoint(); err != nil {
		return err
	}

	logger.Debug("sending search",
		slog.String("operation", op.Name),
		slog.String("document", document),
	)
	session := client.NewSession(newClient())
	defer session.Close()

	body, err := session.Search(cmd.Context(), document)
	var rows []results.Row
	if err == nil {
		rows, err = results.Normalize(body, op.Name, cfg.IdentifierFieldsFor(op.Name))
	}
	if err != nil {
		logger.Error("search failed", slog.String("operation", op.Name), slog.String("error", err.Error()))
		fmt.Fprintln(cmd.ErrOrStderr(), results.Title(nil, err))
		return err
	}
	columns := results.Columns(op, cfg.ColumnTypes)

	switch {
	case opts.jq != "":
		return printFiltered(cmd, rows, opts.jq)
	case opts.record != "":
		return printRecord(cmd, engine, search, rows, columns, opts)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s for %s\n", results.Title(rows, nil), engine.Title(search))
	renderer := rowsRenderer(rows, columns)
	if opts.exportDir != "" {
		if err := exportRows(cmd, renderer, engine.ExportFileName(cfg.ExportFileNamePrefix, search), opts.exportDir); err != nil {
			return err
		}
	}
	return renderer.Write(cmd.OutOrStdout(), outputFormat)
}

func validateSearch(cmd *cobra.Command, search *assembly.Search) error {
	parsed, err := loadCliForSchema()
	if err != nil {
		return err
	}
	literal, err := search.Literal()
	if err != nil {
		return err
	}
	result := validateDocument(literal, parsed)
	if result.Valid {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), formatValidationResultText(result, "search", literal, parsed))
	return ErrValidationFailed
}

func printSearch(cmd *cobra.Command, engine *assembly.Engine, search *assembly.Search, document string) error {
	if outputFormat != render.FormatJSON {
		fmt.Fprintln(cmd.OutOrStdout(), document)
		return nil
	}
	info := SearchInfo{
		Operation: search.Operation.Name,
		Query:     search.Query,
		Document:  document,
		Title:     engine.Title(search),
	}
	if cfg.URL != "" {
		info.URL = newClient().URL(document)
	}
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func rowsRenderer(rows []results.Row, columns []results.Column) render.Renderer[results.Row] {
	values := func(r results.Row) []string {
		return pluck(columns, func(c results.Column) string { return c.Format(r.Get(c.Field)) })
	}
	return render.Renderer[results.Row]{
		Data: rows,
		TextFormat: func(r results.Row) string {
			return r.ID + "\t" + strings.Join(values(r), "\t")
		},
		PrettyFormat: func(rows []results.Row) string {
			t := makeTable()
			for _, r := range rows {
				t.Row(append([]string{r.ID}, values(r)...)...)
			}
			t.Headers(append([]string{"id"}, pluck(columns, func(c results.Column) string { return c.HeaderName })...)...)
			return t.String()
		},
		CSVHeader: pluck(columns, func(c results.Column) string { return c.HeaderName }),
		CSVRecord: values,
	}
}

func exportRows(cmd *cobra.Command, renderer render.Renderer[results.Row], name, dir string) error {
	out, err := renderer.Render(render.FormatCSV)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, name+".csv")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", len(renderer.Data), path)
	return nil
}

func printFiltered(cmd *cobra.Command, rows []results.Row, expression string) error {
	values, err := results.Filter(rows, expression)
	if err != nil {
		return err
	}
	for _, v := range values {
		if s, ok := v.(string); ok && outputFormat != render.FormatJSON {
			fmt.Fprintln(cmd.OutOrStdout(), s)
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	}
	return nil
}

// recordView is the JSON form of a record detail.
type recordView struct {
	Title string `json:"title"`
	results.Detail
}

func printRecord(cmd *cobra.Command, engine *assembly.Engine, search *assembly.Search, rows []results.Row, columns []results.Column, opts *searchOptions) error {
	row, ok := results.Find(rows, opts.record)
	if !ok {
		ids := pluck(rows, func(r results.Row) string { return r.ID })
		if suggestion := findClosest(opts.record, ids); suggestion != "" {
			return fmt.Errorf("%w: '%s', did you mean '%s'?", results.ErrNoRecord, opts.record, suggestion)
		}
		return fmt.Errorf("%w: '%s'", results.ErrNoRecord, opts.record)
	}
	if opts.highlight != "" && search.Operation.Field(opts.highlight) == nil {
		return unknownReturnField(search.Operation, opts.highlight)
	}

	title := engine.Title(search)
	detail := results.Record(search.Operation.Label, row, columns, opts.highlight)

	renderer := render.Renderer[results.Entry]{
		Data:     detail.Entries,
		JSONData: recordView{Title: title, Detail: detail},
		TextFormat: func(e results.Entry) string {
			marker := " "
			if e.Highlighted {
				marker = "*"
			}
			return marker + " " + e.Label + ": " + e.Value
		},
		PrettyFormat: func(entries []results.Entry) string {
			t := makeTable()
			for _, e := range entries {
				label := headingStyle.Render(e.Label + ":")
				value := e.Value
				if e.Highlighted {
					value = highlightStyle.Render(value)
				}
				t.Row(label, value)
			}
			return t.String()
		},
		CSVHeader: []string{"field", "label", "value"},
		CSVRecord: func(e results.Entry) []string {
			return []string{e.Field, e.Label, e.Value}
		},
	}

	if outputFormat == render.FormatText || outputFormat == render.FormatPretty {
		out := cmd.OutOrStdout()
		heading := detail.Heading
		if outputFormat == render.FormatPretty {
			heading = headingStyle.Render(heading)
		}
		fmt.Fprintln(out, title)
		fmt.Fprintln(out, heading)
		if detail.CreatedAt != "" {
			fmt.Fprintln(out, "Created at: "+detail.CreatedAt)
		}
	}
	return renderer.Write(cmd.OutOrStdout(), outputFormat)
}

func unknownReturnField(op *schema.QueryDefinition, name string) error {
	if suggestion := findClosest(name, op.Type.FieldNames()); suggestion != "" {
		return fmt.Errorf("field '%s' does not exist on %s, did you mean '%s'?", name, op.Type.BaseName(), suggestion)
	}
	return fmt.Errorf("field '%s' does not exist on %s", name, op.Type.BaseName())
}
