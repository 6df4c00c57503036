package diagnostic

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// plain drops terminal colors so layouts can be compared.
func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestRenderSnippet(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		line    int
		column  int
		length  int
		message string
		want    string
	}{
		{
			name:   "underline",
			source: "{ people { lastNme } }",
			line:   3, column: 12, length: 7,
			want: "3 | { people { lastNme } }\n" +
				"  |            ^^^^^^^",
		},
		{
			name:   "with message",
			source: "{ people { lastNme } }",
			line:   3, column: 12, length: 7, message: "unknown field",
			want: "3 | { people { lastNme } }\n" +
				"  |            ^^^^^^^ unknown field",
		},
		{
			name:   "first column",
			source: "people",
			line:   1, column: 1, length: 6,
			want: "1 | people\n" +
				"  | ^^^^^^",
		},
		{
			name:   "zero length and column clamp to one",
			source: "people",
			line:   1, column: 0, length: 0,
			want: "1 | people\n" +
				"  | ^",
		},
		{
			name:   "wide gutter",
			source: "age",
			line:   1234, column: 1, length: 3,
			want: "1234 | age\n" +
				"     | ^^^",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderSnippet(tt.source, tt.line, tt.column, tt.length, tt.message)
			assert.Equal(t, tt.want, plain(got))
		})
	}
}

func TestRenderLocation(t *testing.T) {
	assert.Equal(t, "--> query.graphql:3:9", plain(RenderLocation("query.graphql", 3, 9)))
	assert.Equal(t, "--> stdin:1:23", plain(RenderLocation("stdin", 1, 23)))
}

func TestRenderFlag(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		value   string
		start   int
		length  int
		message string
		want    []string
	}{
		{
			name: "unknown field", flag: "set", value: "lastNme=Doe", length: 7, message: "unknown field",
			want: []string{"--set lastNme=Doe", "      ^^^^^^^ unknown field"},
		},
		{
			name: "value span", flag: "set", value: "status=gone", start: 7, length: 4,
			want: []string{"--set status=gone", "             ^^^^"},
		},
		{
			name: "clamped", flag: "param", value: "x", start: -3,
			want: []string{"--param x", "        ^"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plain(RenderFlag(tt.flag, tt.value, tt.start, tt.length, tt.message))
			assert.Equal(t, tt.want, strings.Split(got, "\n"))
		})
	}
}

func TestRenderHelp(t *testing.T) {
	assert.Equal(t, "  = help: did you mean `lastName`?", plain(RenderHelp("did you mean `lastName`?")))
}
