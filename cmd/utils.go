package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samwightt/archivist/pkg/client"
	"github.com/samwightt/archivist/pkg/schema"
	"github.com/samwightt/archivist/pkg/widget"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

var tableStyle = lipgloss.NewStyle().PaddingRight(1)

func makeTable() *table.Table {
	return table.New().
		Width(120).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return tableStyle
		})
}

// widgets decides the input widget of every form field.
var widgets = widget.NewSet()

const maxSuggestionDistance = 5

func findClosest(input string, candidates []string) string {
	minDist := -1
	closest := ""
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(input, c)
		if minDist == -1 || dist < minDist {
			minDist = dist
			closest = c
		}
	}
	if minDist > maxSuggestionDistance {
		return ""
	}
	return closest
}

// pluck maps items to a slice of strings.
func pluck[T any](items []T, fn func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

func newClient() *client.Client {
	return client.New(cfg.URL,
		client.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		client.WithLogger(logger),
	)
}

func requireEndpoint() error {
	if cfg.URL == "" {
		return fmt.Errorf("no GraphQL endpoint configured: set \"url\" in %s or pass --endpoint", configPath)
	}
	return nil
}

func loadCliForSchema() (*ast.Schema, error) {
	_, parsed, err := schema.LoadSDL(schemaFilePath)
	if err != nil {
		return nil, schemaFileError(err)
	}
	return parsed, nil
}

func schemaFileError(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("schema file does not exist: %s", schemaFilePath)
	}
	var parsingError *gqlerror.Error

	if errors.As(err, &parsingError) {
		return fmt.Errorf("GraphQL schema parsing error: %v", parsingError)
	}

	return fmt.Errorf("unexpected error: %v", err)
}

func processSchema(s *schema.Schema, source string) (*schema.Catalog, error) {
	if s == nil {
		logger.Warn("no schema data, no operations available",
			slog.String("source", source),
			slog.String("error", schema.ErrNoSchema.Error()),
		)
		return &schema.Catalog{}, nil
	}
	catalog, err := schema.Process(s, schema.WithWidgetResolver(widgets.KindOf))
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog built",
		slog.String("source", source),
		slog.Int("operations", len(catalog.Operations)),
	)
	return catalog, nil
}

// loadCliForCatalog builds the operation catalogue from the saved
// introspection file, the endpoint, or the SDL file, in that order.
func loadCliForCatalog(ctx context.Context) (*schema.Catalog, error) {
	switch {
	case introspectionPath != "":
		s, err := schema.LoadIntrospection(introspectionPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("introspection file does not exist: %s", introspectionPath)
			}
			return nil, err
		}
		return processSchema(s, introspectionPath)

	case cfg.URL != "":
		return catalogCache.Get(ctx, cfg.URL, func(ctx context.Context) (*schema.Catalog, error) {
			s, err := newClient().Introspect(ctx)
			if err != nil && !errors.Is(err, schema.ErrNoSchema) {
				return nil, fmt.Errorf("introspection failed: %w", err)
			}
			return processSchema(s, cfg.URL)
		})

	default:
		s, _, err := schema.LoadSDL(schemaFilePath)
		if err != nil {
			return nil, schemaFileError(err)
		}
		return processSchema(s, schemaFilePath)
	}
}

// loadOperation resolves an operation by name or label.
func loadOperation(ctx context.Context, name string) (*schema.Catalog, *schema.QueryDefinition, error) {
	catalog, err := loadCliForCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	if catalog.Empty() {
		return nil, nil, fmt.Errorf("no searchable operations in the schema")
	}
	op, err := catalog.Find(name)
	if err != nil {
		return nil, nil, err
	}
	return catalog, op, nil
}
