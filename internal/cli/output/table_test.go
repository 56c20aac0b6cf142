package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

type samplePrediction struct {
	ID         string  `json:"_id" yaml:"id" table:"wide"`
	Filename   string  `json:"filename" yaml:"filename"`
	Result     string  `json:"result" yaml:"result"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	UserEmail  string  `json:"user_email,omitempty" yaml:"user_email,omitempty"`
}

type stamp string

func (s stamp) String() string { return "at " + string(s) }

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTableFormatter_Format_Table(t *testing.T) {
	table := NewTable("NAME", "EMAIL")
	table.AddRow("Greg", "greg@ppth.org")
	table.AddRow("Lisa", "lisa@ppth.org")

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := lines(buf.String())
	if len(got) != 3 || !strings.HasPrefix(got[0], "NAME") || !strings.Contains(got[2], "lisa@ppth.org") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTableFormatter_Format_TableValue(t *testing.T) {
	table := Table{Headers: []string{"A"}, Rows: [][]string{{"1"}}}
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "A\n1\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTableFormatter_Format_NoHeaders(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("1", "2")

	var buf bytes.Buffer
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, table); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "A") {
		t.Errorf("headers rendered: %q", buf.String())
	}
}

func TestTableFormatter_Format_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("Format(nil) = %q, %v", buf.String(), err)
	}
}

func TestTableFormatter_Format_Slice(t *testing.T) {
	data := []samplePrediction{
		{ID: "p1", Filename: "a.png", Result: "Tumor", Confidence: 0.934, UserEmail: "greg@ppth.org"},
		{ID: "p2", Filename: "b.png", Result: "Non-Tumor", Confidence: 0.5},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := lines(buf.String())
	if len(got) != 3 {
		t.Fatalf("lines = %q", got)
	}
	if fields := strings.Fields(got[0]); strings.Join(fields, " ") != "FILENAME RESULT CONFIDENCE USER_EMAIL" {
		t.Errorf("headers = %q", got[0])
	}
	if !strings.Contains(got[1], "0.93") || !strings.Contains(got[2], "-") {
		t.Errorf("rows = %q", got[1:])
	}
	if strings.Contains(buf.String(), "p1") {
		t.Error("wide-only column shown in narrow mode")
	}
}

func TestTableFormatter_Format_SliceWide(t *testing.T) {
	data := []samplePrediction{{ID: "p1", Filename: "a.png"}}

	var buf bytes.Buffer
	if err := (&TableFormatter{Wide: true}).Format(&buf, data); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "ID") || !strings.Contains(buf.String(), "p1") {
		t.Errorf("wide output = %q", buf.String())
	}
}

func TestTableFormatter_Format_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []samplePrediction{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestTableFormatter_Format_Map(t *testing.T) {
	data := map[string]any{"status": "running", "db": "ok"}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatal(err)
	}
	got := lines(buf.String())
	if len(got) != 3 || !strings.HasPrefix(got[1], "db") || !strings.HasPrefix(got[2], "status") {
		t.Errorf("rows should be sorted by key: %q", got)
	}
}

func TestTableFormatter_Format_SingleStruct(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(&buf, &samplePrediction{Filename: "a.png", Result: "Tumor"})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "FIELD") || !strings.Contains(out, "filename") || !strings.Contains(out, "a.png") {
		t.Errorf("output = %q", out)
	}
}

func TestTableFormatter_Format_Stringer(t *testing.T) {
	type row struct {
		When stamp `yaml:"when"`
	}
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []row{{When: "noon"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "at noon") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTableFormatter_Format_SkipFields(t *testing.T) {
	type skipFieldStruct struct {
		Name   string `json:"name"`
		Secret string `json:"-"`
		Skip   string `json:"skip" table:"-"`
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []skipFieldStruct{{Name: "visible", Secret: "s", Skip: "x"}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "SKIP") {
		t.Error("table:\"-\" field should be skipped")
	}
	if !strings.Contains(out, "SECRET") {
		t.Error("json:\"-\" field should fall back to the Go name")
	}
}

func TestTableFormatter_Format_FallbackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "42\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", "hello"},
		{"empty string", "", "-"},
		{"int", 42, "42"},
		{"uint", uint(99), "99"},
		{"float64", 3.14159, "3.14"},
		{"bool true", true, "yes"},
		{"bool false", false, "no"},
		{"empty slice", []int{}, "-"},
		{"slice", []int{1, 2, 3}, "[3 items]"},
		{"map", map[string]int{"a": 1}, "{1 keys}"},
		{"stringer", stamp("9am"), "at 9am"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatValue(reflect.ValueOf(tc.input)); got != tc.expected {
				t.Errorf("formatValue(%v) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestFormatValue_Time(t *testing.T) {
	tm := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	if got := formatValue(reflect.ValueOf(tm)); got != "2026-03-01 14:30" {
		t.Errorf("formatValue(time) = %q", got)
	}
	if got := formatValue(reflect.ValueOf(time.Time{})); got != "-" {
		t.Errorf("formatValue(zero time) = %q", got)
	}
}

func TestFormatValue_PointerAndInterface(t *testing.T) {
	val := "pointer value"
	if got := formatValue(reflect.ValueOf(&val)); got != val {
		t.Errorf("formatValue(*string) = %q", got)
	}
	var nilPtr *string
	if got := formatValue(reflect.ValueOf(nilPtr)); got != "" {
		t.Errorf("formatValue(nil ptr) = %q", got)
	}
	var nilIface any
	if got := formatValue(reflect.ValueOf(&nilIface).Elem()); got != "" {
		t.Errorf("formatValue(nil interface) = %q", got)
	}
	if got := formatValue(reflect.Value{}); got != "" {
		t.Errorf("formatValue(invalid) = %q", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	testCases := map[string]string{
		"Name":       "Name",
		"UserEmail":  "User_Email",
		"user_email": "user_email",
		"CreatedAt":  "Created_At",
	}
	for in, want := range testCases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTable_Records(t *testing.T) {
	table := NewTable("NAME", "VERIFIED")
	table.AddRow("Greg", "yes")
	table.AddRow("Lisa")

	recs := table.Records()
	if len(recs) != 2 || recs[0]["name"] != "Greg" || recs[0]["verified"] != "yes" {
		t.Errorf("Records() = %v", recs)
	}
	if _, ok := recs[1]["verified"]; ok {
		t.Error("short row should not invent cells")
	}
}

func TestTable_SetHeadersAndSort(t *testing.T) {
	table := &Table{}
	table.SetHeaders("K")
	table.AddRow("b")
	table.AddRow("a")
	table.SortRows()

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "K\na\nb\n" {
		t.Errorf("output = %q", buf.String())
	}
}
