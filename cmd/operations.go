package cmd

import (
	"fmt"
	"strings"

	"github.com/samwightt/archivist/pkg/render"
	"github.com/samwightt/archivist/pkg/schema"
	"github.com/spf13/cobra"
)

func operationToInfo(op *schema.QueryDefinition) OperationInfo {
	info := OperationInfo{
		Name:        op.Name,
		Label:       op.Label,
		Type:        op.Type.DisplayName(),
		Description: op.Description,
	}
	for _, arg := range op.Args {
		info.Arguments = append(info.Arguments, ArgumentInfo{Name: arg.Name, Type: arg.Type.DisplayName()})
	}
	return info
}

func formatArguments(args []ArgumentInfo) string {
	parts := pluck(args, func(a ArgumentInfo) string { return a.Name + ": " + a.Type })
	return strings.Join(parts, ", ")
}

func formatOperationText(op OperationInfo) string {
	return fmt.Sprintf("%s(%s): %s # %s", op.Name, formatArguments(op.Arguments), op.Type, op.Label)
}

func formatOperationsPretty(ops []OperationInfo) string {
	t := makeTable()
	for _, op := range ops {
		t.Row(op.Name, op.Label, formatArguments(op.Arguments), op.Type)
	}
	t.Headers("operation", "label", "arguments", "returns")
	return t.String()
}

func NewOperationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops"},
		Short:   "Lists the operations the search form can run",
		Long: `Lists the searchable operations: query fields that take at least one
argument and return a list.

Output formats:
  text    "people(query: PersonQuery): [Person] # People"
  json    [{"name": "people", "label": "People", "arguments": [...], "type": "[Person]"}, ...]
  pretty  Formatted table (default in terminal)`,
		Example: `  # List operations from the configured endpoint
  archivist operations

  # List operations from a saved introspection response
  archivist operations -i introspection.json -f json`,
		Args: cobra.NoArgs,
		RunE: runOperations,
	}
	return cmd
}

func runOperations(cmd *cobra.Command, args []string) error {
	catalog, err := loadCliForCatalog(cmd.Context())
	if err != nil {
		return err
	}

	ops := make([]OperationInfo, 0, len(catalog.Operations))
	for _, op := range catalog.Operations {
		ops = append(ops, operationToInfo(op))
	}
	if len(ops) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No searchable operations found.")
	}

	renderer := render.Renderer[OperationInfo]{
		Data:         ops,
		TextFormat:   formatOperationText,
		PrettyFormat: formatOperationsPretty,
		CSVHeader:    []string{"operation", "label", "arguments", "returns"},
		CSVRecord: func(op OperationInfo) []string {
			return []string{op.Name, op.Label, formatArguments(op.Arguments), op.Type}
		},
	}
	return renderer.Write(cmd.OutOrStdout(), outputFormat)
}
