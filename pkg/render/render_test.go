package render

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"pretty", FormatPretty},
		{"Pretty", FormatPretty},
		{"csv", FormatCSV},
		{"CSV", FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
		})
	}
}

func TestParseFormat_Invalid(t *testing.T) {
	for _, input := range []string{"yaml", ""} {
		_, err := ParseFormat(input)
		require.Error(t, err)
		assert.Equal(t, "invalid format: "+input+" (valid: json, text, pretty, csv)", err.Error())
	}
}

func TestValidFormats(t *testing.T) {
	assert.ElementsMatch(t, []Format{FormatJSON, FormatText, FormatPretty, FormatCSV}, ValidFormats)
}

type register struct {
	Office  string `json:"office"`
	Records int    `json:"records"`
}

var registers = []register{
	{Office: "North", Records: 120},
	{Office: "South, annex", Records: 7},
}

func registerRenderer(data []register) Renderer[register] {
	return Renderer[register]{
		Data: data,
		TextFormat: func(r register) string {
			return r.Office + "\t" + strconv.Itoa(r.Records)
		},
		PrettyFormat: func(rs []register) string {
			return strconv.Itoa(len(rs)) + " registers"
		},
		CSVHeader: []string{"Office", "Records"},
		CSVRecord: func(r register) []string {
			return []string{r.Office, strconv.Itoa(r.Records)}
		},
	}
}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "North\t120\nSouth, annex\t7"},
		{FormatPretty, "2 registers"},
		{FormatCSV, "Office,Records\nNorth,120\n\"South, annex\",7\n"},
		{FormatJSON, "[\n  {\n    \"office\": \"North\",\n    \"records\": 120\n  },\n  {\n    \"office\": \"South, annex\",\n    \"records\": 7\n  }\n]"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := registerRenderer(registers).Render(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRenderer_Render_EmptyData(t *testing.T) {
	r := registerRenderer([]register{})

	out, err := r.Render(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = r.Render(FormatText)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = r.Render(FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "Office,Records\n", out)

	out, err = registerRenderer(nil).Render(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "null", out)
}

func TestRenderer_Render_MissingHooks(t *testing.T) {
	r := Renderer[register]{Data: registers}

	_, err := r.Render(FormatText)
	assert.ErrorContains(t, err, "text format not defined")
	_, err = r.Render(FormatPretty)
	assert.ErrorContains(t, err, "pretty format not defined")
	_, err = r.Render(FormatCSV)
	assert.ErrorContains(t, err, "csv format not defined")
	_, err = r.Render(Format("yaml"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestRenderer_Render_JSONData(t *testing.T) {
	r := registerRenderer(registers)
	r.JSONData = map[string]int{"total": 127}

	out, err := r.Render(FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 127}`, out)
}

func TestRenderer_Write(t *testing.T) {
	var buf bytes.Buffer
	r := registerRenderer(registers)

	require.NoError(t, r.Write(&buf, FormatText))
	assert.Equal(t, "North\t120\nSouth, annex\t7\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Write(&buf, FormatCSV))
	assert.Equal(t, "Office,Records\nNorth,120\n\"South, annex\",7\n", buf.String())

	r.PrettyFormat = nil
	assert.ErrorContains(t, r.Write(&buf, FormatPretty), "error rendering output")
}
