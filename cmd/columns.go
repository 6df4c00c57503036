package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samwightt/archivist/pkg/render"
	"github.com/samwightt/archivist/pkg/results"
	"github.com/spf13/cobra"
)

func columnTypeName(c results.Column) string {
	if c.Type == results.TypeUntyped {
		return "-"
	}
	return string(c.Type)
}

func formatColumnText(c results.Column) string {
	line := fmt.Sprintf("%s: %s (%s, width %d)", c.Field, columnTypeName(c), c.HeaderName, c.Width)
	if len(c.ValueOptions) > 0 {
		line += " [" + strings.Join(c.ValueOptions, ", ") + "]"
	}
	return line
}

func formatColumnsPretty(columns []results.Column) string {
	t := makeTable()
	for _, c := range columns {
		t.Row(c.Field, c.HeaderName, columnTypeName(c), strconv.Itoa(c.Width), strings.Join(c.ValueOptions, ", "))
	}
	t.Headers("field", "header", "type", "width", "options")
	return t.String()
}

func NewColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns <operation>",
		Short: "Lists the result columns of an operation",
		Long: `Lists one result column per field of the operation's return type.

Column types follow the GraphQL scalar: Int, Int64, Float and Float64 are
numbers, String is a string, Boolean a boolean, Date a date and Time a
dateTime. Enum types become single-select columns with their values as
options. "column_types" in the configuration overrides the mapping.`,
		Example: `  archivist columns birthRecords
  archivist columns people -f json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeOperations(cmd.Context(), toComplete)
		},
		RunE: runColumns,
	}
	return cmd
}

func runColumns(cmd *cobra.Command, args []string) error {
	_, op, err := loadOperation(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	renderer := render.Renderer[results.Column]{
		Data:         results.Columns(op, cfg.ColumnTypes),
		TextFormat:   formatColumnText,
		PrettyFormat: formatColumnsPretty,
		CSVHeader:    []string{"field", "header", "type", "width", "options"},
		CSVRecord: func(c results.Column) []string {
			return []string{c.Field, c.HeaderName, string(c.Type), strconv.Itoa(c.Width), strings.Join(c.ValueOptions, "|")}
		},
	}
	return renderer.Write(cmd.OutOrStdout(), outputFormat)
}
