// Package diagnostic renders error messages with source snippets and
// underlines, for query documents and command-line values alike.
package diagnostic

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	caretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// RenderSnippet renders a source line with line number, gutter, and underline caret.
// Returns something like:
//
//	3 | query { user }
//	  |         ^^^^ error message here
func RenderSnippet(source string, lineNum int, column int, length int, message string) string {
	if length < 1 {
		length = 1
	}
	if column < 1 {
		column = 1
	}

	numStr := strconv.Itoa(lineNum)
	gutterWidth := len(numStr)

	lineNumStyled := gutterStyle.Render(numStr)
	pipe := gutterStyle.Render("|")
	emptyGutter := strings.Repeat(" ", gutterWidth)

	// Line with number: "3 | query { user }"
	codeLine := lineNumStyled + " " + pipe + " " + source

	return codeLine + "\n" + emptyGutter + " " + pipe + " " + underline(column, length, message)
}

func underline(column, length int, message string) string {
	padding := strings.Repeat(" ", column-1)
	carets := caretStyle.Render(strings.Repeat("^", length))
	if message == "" {
		return padding + carets
	}
	return padding + carets + " " + messageStyle.Render(message)
}

// RenderFlag underlines part of a command-line flag value:
//
//	--set lastNme=Doe
//	      ^^^^^^^ unknown field
//
// start is the zero-based offset of the span within value.
func RenderFlag(flag, value string, start, length int, message string) string {
	if length < 1 {
		length = 1
	}
	if start < 0 {
		start = 0
	}
	prefix := "--" + flag + " "
	return prefix + value + "\n" + underline(len(prefix)+start+1, length, message)
}

// RenderHelp renders a help note such as "  = help: did you mean `name`?".
func RenderHelp(message string) string {
	return "  = " + helpStyle.Render("help:") + " " + message
}

// RenderLocation renders a location header like "--> file.graphql:3:9"
func RenderLocation(filename string, line int, column int) string {
	loc := filename + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(column)
	arrow := gutterStyle.Render("-->")
	return arrow + " " + loc
}
