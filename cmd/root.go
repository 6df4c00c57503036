/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/samwightt/archivist/pkg/client"
	"github.com/samwightt/archivist/pkg/config"
	"github.com/samwightt/archivist/pkg/logging"
	"github.com/samwightt/archivist/pkg/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configPath        string
	endpointURL       string
	introspectionPath string
	schemaFilePath    string
	outputFormat      render.Format

	cfg          *config.Config
	logger       *slog.Logger
	closeLog     = func() error { return nil }
	catalogCache *client.CatalogCache
)

func formatFlag() string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return string(render.FormatPretty)
	}
	return string(render.FormatText)
}

// NewRootCmd creates and returns the root command with all subcommands attached.
// This function creates a fresh command tree, ensuring no state leaks between invocations.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archivist",
		Short: "Search archived records through a schema-driven GraphQL form",
		Long: `archivist searches archived records held behind a single GraphQL endpoint.

The search form is derived from the endpoint's schema: every query that takes
arguments and returns a list becomes a searchable operation, and its argument
input fields become form fields. Required field groups, optional fields and
row identifiers come from the configuration file (./archivist.yaml by default).

The schema is read, in order of preference, from a saved introspection
response (-i), from the endpoint (-e or "url" in the config), or from an SDL
file (-s, ./schema.graphql by default).

Output can be formatted as pretty tables (default in terminals), plain text
(default when piping), JSON or CSV.`,
		Example: `  # List searchable operations
  archivist operations

  # Show the form fields of an operation
  archivist fields birthRecords

  # Search, with a value seeded from a page URL
  archivist search people --set lastName=Doe --set firstName=Jane --url "?status=active"

  # Print the query document without sending it
  archivist search people --set lastName=Doe --set firstName=Jane --dry-run

  # Pipe JSON output to other tools
  archivist search people --set recordNumber=42 -f json | jq '.[].values'`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file")
	cmd.PersistentFlags().StringVarP(&endpointURL, "endpoint", "e", "", "GraphQL endpoint the escaped query is appended to (overrides \"url\" in the config)")
	cmd.PersistentFlags().StringVarP(&introspectionPath, "introspection", "i", "", "Saved introspection response to read the schema from")
	cmd.PersistentFlags().StringVarP(&schemaFilePath, "schema", "s", "schema.graphql", "File path of GraphQL schema (SDL)")

	var formatStr string
	cmd.PersistentFlags().StringVarP(&formatStr, "format", "f", formatFlag(), "Output format: json, text, pretty, csv (default: pretty if interactive, text otherwise)")
	var verbose bool
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		outputFormat, err = render.ParseFormat(formatStr)
		if err != nil {
			return err
		}

		cfg, err = loadConfig(cmd.Flag("config").Changed)
		if err != nil {
			return err
		}
		if endpointURL != "" {
			cfg.URL = endpointURL
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		l, cleanup, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		logger, closeLog = l, cleanup

		catalogCache, err = client.NewCatalogCache(cfg.CacheSize)
		return err
	}

	cmd.AddCommand(NewOperationsCmd())
	cmd.AddCommand(NewFieldsCmd())
	cmd.AddCommand(NewColumnsCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewPageCmd())

	return cmd
}

// loadConfig reads the config file. A missing default file means an empty
// configuration; a missing explicit one is an error.
func loadConfig(explicit bool) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err == nil {
		return c, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := NewRootCmd().Execute()
	_ = closeLog()
	if err != nil {
		os.Exit(1)
	}
}

// ExecuteWithArgs runs the CLI with the given arguments and returns stdout, stderr, and any error.
// This is useful for testing.
func ExecuteWithArgs(args []string) (stdout string, stderr string, err error) {
	return ExecuteWithArgsAndStdin(args, nil)
}

// ExecuteWithArgsAndStdin runs the CLI with the given arguments and stdin, returns stdout, stderr, and any error.
// This is useful for testing commands that read from stdin.
func ExecuteWithArgsAndStdin(args []string, stdin *bytes.Buffer) (stdout string, stderr string, err error) {
	cmd := NewRootCmd()

	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)

	cmd.SetOut(stdoutBuf)
	cmd.SetErr(stderrBuf)
	cmd.SetArgs(args)
	if stdin != nil {
		cmd.SetIn(stdin)
	}

	err = cmd.Execute()
	_ = closeLog()

	return stdoutBuf.String(), stderrBuf.String(), err
}
