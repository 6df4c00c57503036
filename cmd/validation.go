package cmd

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/samwightt/archivist/pkg/diagnostic"
	gqlparser "github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// ErrValidationFailed is returned when a query document fails validation.
// It means the document is invalid, not that the command itself failed.
var ErrValidationFailed = errors.New("validation failed")

func convertGQLErrors(errs gqlerror.List) []ValidationError {
	var result []ValidationError
	for _, err := range errs {
		valErr := ValidationError{
			Message: err.Message,
			Rule:    err.Rule,
		}
		for _, loc := range err.Locations {
			valErr.Locations = append(valErr.Locations, Location{
				Line:   loc.Line,
				Column: loc.Column,
			})
		}
		result = append(result, valErr)
	}
	return result
}

// validateDocument parses and type-checks a query document against schema.
func validateDocument(document string, schema *ast.Schema) *ValidationResult {
	doc, parseErr := gqlparser.LoadQuery(schema, document)
	if parseErr != nil {
		return &ValidationResult{Valid: false, Errors: convertGQLErrors(parseErr)}
	}
	if errs := validator.Validate(schema, doc); len(errs) > 0 {
		return &ValidationResult{Valid: false, Errors: convertGQLErrors(errs)}
	}
	return &ValidationResult{Valid: true}
}

// gqlparser locations carry no span, so known rules are parsed to find what
// to underline and suggest; anything else gets a single caret.

// Cannot query field "badField" on type "Query".
var fieldsOnCorrectTypeRegex = regexp.MustCompile(`Cannot query field "([^"]+)" on type "([^"]+)"`)

// Field "lastNme" is not defined by type "PersonQuery".
var unknownInputFieldRegex = regexp.MustCompile(`Field "([^"]+)" is not defined by type "([^"]+)"`)

func parseRule(err ValidationError) (rule *regexp.Regexp, fieldName, typeName string) {
	for _, re := range []*regexp.Regexp{fieldsOnCorrectTypeRegex, unknownInputFieldRegex} {
		if m := re.FindStringSubmatch(err.Message); len(m) == 3 {
			return re, m[1], m[2]
		}
	}
	return nil, "", ""
}

func errorSpanLength(err ValidationError) int {
	if _, fieldName, _ := parseRule(err); fieldName != "" {
		return len(fieldName)
	}
	return 1
}

func errorSuggestion(err ValidationError, schema *ast.Schema) string {
	re, fieldName, typeName := parseRule(err)
	if re == nil {
		return ""
	}
	typeDef := schema.Types[typeName]
	if typeDef == nil {
		return ""
	}
	closest := findClosest(fieldName, pluck(typeDef.Fields, func(f *ast.FieldDefinition) string { return f.Name }))
	if closest == "" || closest == fieldName {
		return ""
	}
	return fmt.Sprintf("did you mean `%s`?", closest)
}

// detectZshEscapeIssue reports zsh history expansion turning `!` into `\!`
// in a query piped on stdin.
func detectZshEscapeIssue(err ValidationError, sourceContent string, sourceName string) string {
	if sourceName != "stdin" || !strings.Contains(sourceContent, `\!`) || len(err.Locations) == 0 {
		return ""
	}
	loc := err.Locations[0]
	lines := strings.Split(sourceContent, "\n")
	if loc.Line < 1 || loc.Line > len(lines) {
		return ""
	}
	line := lines[loc.Line-1]
	col := loc.Column - 1
	if col >= 0 && col < len(line)-1 && line[col] == '\\' && line[col+1] == '!' {
		return "it looks like zsh escaped `!` as `\\!`. Try using a heredoc instead:\n" +
			"       cat <<'EOF' | archivist validate\n" +
			"       { people(query: {...}) { ... } }\n" +
			"       EOF"
	}
	return ""
}

func formatValidationResultText(result *ValidationResult, sourceName string, sourceContent string, schema *ast.Schema) string {
	if result.Valid {
		return "✓ Query is valid\n"
	}

	lines := strings.Split(sourceContent, "\n")

	var b strings.Builder
	if len(result.Errors) == 1 {
		b.WriteString("✗ Query has 1 error:\n")
	} else {
		fmt.Fprintf(&b, "✗ Query has %d errors:\n", len(result.Errors))
	}

	for _, err := range result.Errors {
		if len(err.Locations) == 0 {
			fmt.Fprintf(&b, "  %s\n", err.Message)
			continue
		}
		loc := err.Locations[0]
		b.WriteString(diagnostic.RenderLocation(sourceName, loc.Line, loc.Column) + "\n")
		if loc.Line > 0 && loc.Line <= len(lines) {
			b.WriteString(diagnostic.RenderSnippet(lines[loc.Line-1], loc.Line, loc.Column, errorSpanLength(err), err.Message) + "\n")
		}
		if help := detectZshEscapeIssue(err, sourceContent, sourceName); help != "" {
			b.WriteString(diagnostic.RenderHelp(help) + "\n")
		} else if suggestion := errorSuggestion(err, schema); suggestion != "" {
			b.WriteString(diagnostic.RenderHelp(suggestion) + "\n")
		}
	}

	return b.String()
}
