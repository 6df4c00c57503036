package widget

import (
	"testing"

	"github.com/samwightt/archivist/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(name, typeName string) *schema.FieldDescriptor {
	return &schema.FieldDescriptor{Name: name, Type: &schema.TypeDescriptor{Name: typeName}}
}

func TestSet_For(t *testing.T) {
	set := NewSet()

	timeRange := field("registeredAt", "TimeRange")
	timeRange.Type.Fields = []*schema.FieldDescriptor{field("start", "Time"), field("end", "Time")}

	status := field("status", "Status")
	status.Type.EnumValues = []schema.EnumValue{{Name: "ACTIVE"}, {Name: "ARCHIVED"}}

	tests := []struct {
		name  string
		field *schema.FieldDescriptor
		want  Kind
	}{
		{"string", field("lastName", "String"), KindText},
		{"date", field("birthDate", "Date"), KindDate},
		{"non-null date", field("birthDate", "Date!"), KindDate},
		{"time", field("registeredAt", "Time"), KindTime},
		{"date range", field("birthDate", "DateRange"), KindDateRange},
		{"time range", timeRange, KindTimeRange},
		{"time range without both ends", field("registeredAt", "TimeRange"), KindText},
		{"enum", status, KindEnum},
		{"nil", nil, KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, set.For(tt.field).Kind)
		})
	}
}

func TestSet_ForUsesProcessedKind(t *testing.T) {
	set := NewSet()
	f := field("birthDate", "String")
	f.Widget = string(KindDate)

	assert.Equal(t, KindDate, set.For(f).Kind)
	assert.Equal(t, string(KindText), set.KindOf(f))
}

func TestSet_RegisterCustomWidget(t *testing.T) {
	set := NewSet()
	upper := New("upper", "UPPER CASE", func(v string, _ *schema.FieldDescriptor) (string, error) {
		return "X" + v, nil
	})
	set.Register("record-number", upper, 60, TypeNamed("RecordNumber"))

	w := set.For(field("recordNumber", "RecordNumber"))
	assert.Equal(t, Kind("upper"), w.Kind)

	got, err := w.Normalize("42", nil)
	require.NoError(t, err)
	assert.Equal(t, "X42", got)

	looked, ok := set.Lookup("upper")
	require.True(t, ok)
	assert.Equal(t, "UPPER CASE", looked.Placeholder)
}

func TestNormalize_Date(t *testing.T) {
	got, err := Date.Normalize("2021-03-04T10:30", nil)
	require.NoError(t, err)
	assert.Equal(t, "2021-03-04", got)

	got, err = Date.Normalize("  ", nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Date.Normalize("04/03/2021", nil)
	assert.ErrorContains(t, err, "invalid date")
}

func TestNormalize_Time(t *testing.T) {
	got, err := Time.Normalize("2021-03-04", nil)
	require.NoError(t, err)
	assert.Equal(t, "2021-03-04T00:00", got)

	got, err = Time.Normalize("2021-03-04 17:45", nil)
	require.NoError(t, err)
	assert.Equal(t, "2021-03-04T17:45", got)
}

func TestNormalize_DateRange(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2020-01-01...2020-12-31", "2020-01-01...2020-12-31"},
		{"2020-01-01...", "2020-01-01..."},
		{"...2020-12-31", "...2020-12-31"},
		{"2020-01-01", "2020-01-01..."},
		{"...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DateRange.Normalize(tt.in, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DateRange.Normalize("2020-12-31...2020-01-01", nil)
	assert.ErrorContains(t, err, "is after its end")
}

func TestNormalize_TimeRange(t *testing.T) {
	got, err := TimeRange.Normalize("2020-01-01T08:00...2020-01-01T17:30", nil)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01T08:00...2020-01-01T17:30", got)
}

func TestNormalize_Enum(t *testing.T) {
	status := field("status", "Status")
	status.Type.EnumValues = []schema.EnumValue{{Name: "ACTIVE"}, {Name: "ARCHIVED"}}

	got, err := Enum.Normalize("active", status)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", got)

	_, err = Enum.Normalize("deleted", status)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: ACTIVE, ARCHIVED")
}

func TestNormalize_TextTrims(t *testing.T) {
	got, err := Text.Normalize("  Doe ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Doe", got)
}
