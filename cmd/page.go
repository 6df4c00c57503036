package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samwightt/archivist/pkg/render"
	"github.com/samwightt/archivist/pkg/resource"
	"github.com/spf13/cobra"
)

type sectionInfo struct {
	Title string `json:"title"`
	Body  any    `json:"body"`
}

func NewPageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "page <file>",
		Short: "Displays a documentation page",
		Long: `Displays a documentation resource such as an archive's help page.

A JSON object is shown as one titled section per key, in file order. Any
other content is shown as plain text.`,
		Example: `  # Show a help page
  archivist page docs/help.json

  # Sections as JSON
  archivist page docs/help.json -f json`,
		Args: cobra.ExactArgs(1),
		RunE: runPage,
	}
}

func runPage(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}
	page := resource.Decode(raw)

	if outputFormat == render.FormatJSON {
		var out any = page
		if doc, ok := page.(resource.Document); ok {
			sections := make([]sectionInfo, len(doc))
			for i, s := range doc {
				sections[i] = sectionInfo{Title: s.Key, Body: s.Value}
			}
			out = sections
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}

	text, ok := resource.NewRegistry().Render(page)
	if !ok {
		return fmt.Errorf("cannot display %s", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
