/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samwightt/archivist/pkg/render"
	"github.com/spf13/cobra"
)

func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Type-check a GraphQL query against the schema file",
		Long: `Validates a GraphQL query document against the SDL schema (-s).

The query can be provided as a file path argument or piped via stdin ("-"
or no argument). To
check an assembled search instead, pass -s to "archivist search".

Exit codes:
  0 - Query is valid
  1 - Query has validation or parse errors

Output formats:
  text    Human-readable error messages with locations
  json    {"valid": bool, "errors": [...]}`,
		Example: `  # Validate from a file
  archivist validate query.graphql

  # Validate from stdin
  echo '{ people(query: {lastName: "Doe"}) { id } }' | archivist validate

  # JSON output for CI integration
  archivist validate query.graphql -f json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runValidateCmd,
	}

	return cmd
}

// readDocument reads the query document from the file argument, or from
// stdin when there is none or it is "-".
func readDocument(cmd *cobra.Command, args []string) (source, content string, err error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return "stdin", string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read query file: %w", err)
	}
	return args[0], string(b), nil
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	parsed, err := loadCliForSchema()
	if err != nil {
		return err
	}
	source, document, err := readDocument(cmd, args)
	if err != nil {
		return err
	}

	result := validateDocument(document, parsed)
	logger.Debug("validated document",
		slog.String("source", source),
		slog.Bool("valid", result.Valid),
		slog.Int("errors", len(result.Errors)),
	)

	if outputFormat == render.FormatJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	} else {
		fmt.Fprint(cmd.OutOrStdout(), formatValidationResultText(result, source, document, parsed))
	}

	if !result.Valid {
		return ErrValidationFailed
	}
	return nil
}
