package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/refmap/internal/config"
	"github.com/tordrt/refmap/internal/schema"
)

func testReport() *Report {
	return &Report{
		Regions: []schema.RegionResult{
			{
				RegionCode: "84",
				RegionName: "Auvergne-Rhône-Alpes",
				Votes:      schema.VoteCounts{Registered: 100, Abstentions: 20, Null: 5, ChoiceA: 40, ChoiceB: 35},
			},
			{
				RegionCode: "94",
				RegionName: "Corse",
				Votes:      schema.VoteCounts{Registered: 12, Abstentions: 12},
			},
		},
		Departments: []schema.DepartmentResult{
			{RegionCode: "84", DepartmentCode: "01", DepartmentName: "Ain", Votes: schema.VoteCounts{Registered: 60, ChoiceA: 30, ChoiceB: 10}},
			{RegionCode: "84", DepartmentCode: "03", DepartmentName: "Allier", Votes: schema.VoteCounts{Registered: 40, ChoiceA: 10, ChoiceB: 25}},
			{RegionCode: "94", DepartmentCode: "2A", DepartmentName: "Corse-du-Sud", Votes: schema.VoteCounts{Registered: 12, Abstentions: 12}},
		},
	}
}

func TestFormatRatio(t *testing.T) {
	tests := []struct {
		name  string
		votes schema.VoteCounts
		want  string
	}{
		{name: "two thirds", votes: schema.VoteCounts{ChoiceA: 2, ChoiceB: 1}, want: "0.6667"},
		{name: "scenario", votes: schema.VoteCounts{ChoiceA: 40, ChoiceB: 35}, want: "0.5333"},
		{name: "quarter", votes: schema.VoteCounts{ChoiceA: 1, ChoiceB: 3}, want: "0.2500"},
		{name: "no expressed ballot", votes: schema.VoteCounts{Registered: 5}, want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRatio(tt.votes))
		})
	}
}

func TestDepartmentsOf(t *testing.T) {
	r := testReport()

	deps := r.DepartmentsOf("84")
	require.Len(t, deps, 2)
	assert.Equal(t, "01", deps[0].DepartmentCode)
	assert.Equal(t, "03", deps[1].DepartmentCode)
	assert.Empty(t, r.DepartmentsOf("11"))
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(testReport()))

	out := buf.String()
	for _, want := range []string{"code_reg", "name_reg", "Registered", "Abstentions", "Null", "Choice A", "Choice B", "Auvergne-Rhône-Alpes", "Corse", "total", "112"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "ratio")
}

func TestTextFormatterRegion(t *testing.T) {
	r := testReport()
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).FormatRegion(r.Regions[0], r.DepartmentsOf("84")))

	out := buf.String()
	assert.Contains(t, out, "REGION 84 Auvergne-Rhône-Alpes")
	assert.Contains(t, out, "ratio: 0.5333")
	assert.Contains(t, out, "Allier")
	assert.Contains(t, out, "0.7500")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(testReport()))

	out := buf.String()
	assert.Contains(t, out, "# Referendum results by region")
	assert.Contains(t, out, "| code_reg | name_reg | Registered | Abstentions | Null | Choice A | Choice B | ratio |")
	assert.Contains(t, out, "| 84 | Auvergne-Rhône-Alpes | 100 | 20 | 5 | 40 | 35 | 0.5333 |")
	assert.Contains(t, out, "| 94 | Corse | 12 | 12 | 0 | 0 | 0 | - |")
	assert.Contains(t, out, "|  | **total** | 112 | 32 | 5 | 40 | 35 | 0.5333 |")
}

func TestMarkdownFormatterRegion(t *testing.T) {
	r := testReport()
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).FormatRegion(r.Regions[1], nil))

	out := buf.String()
	assert.Contains(t, out, "## Corse (94)")
	assert.Contains(t, out, "- **ratio:** -")
	assert.Contains(t, out, "- **Registered:** 12")
	assert.NotContains(t, out, "### Departments")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).Format(testReport()))

	var doc reportDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Regions, 2)
	assert.Equal(t, "84", doc.Regions[0].Code)
	assert.Equal(t, int64(40), doc.Regions[0].Votes.ChoiceA)
	assert.Equal(t, "0.5333", doc.Regions[0].Votes.Ratio)
	assert.Equal(t, "-", doc.Regions[1].Votes.Ratio)
	assert.Equal(t, int64(112), doc.Total.Registered)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	f, err := New(config.FormatMarkdown, &buf)
	require.NoError(t, err)
	assert.IsType(t, &MarkdownFormatter{}, f)

	_, err = New("html", &buf)
	assert.Error(t, err)
}

func TestMultiFileFormatter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "report")
	f := NewMultiFileFormatter(dir, config.FormatMarkdown)

	require.NoError(t, f.Format(testReport()))

	overview, err := os.ReadFile(filepath.Join(dir, "_overview.md"))
	require.NoError(t, err)
	assert.Contains(t, string(overview), "| 84 | Auvergne-Rhône-Alpes |")

	region, err := os.ReadFile(filepath.Join(dir, "84.md"))
	require.NoError(t, err)
	assert.Contains(t, string(region), "## Auvergne-Rhône-Alpes (84)")
	assert.Contains(t, string(region), "| 01 | Ain | 60 | 0 | 0 | 30 | 10 | 0.7500 |")
	assert.NotContains(t, string(region), "Corse-du-Sud")

	_, err = os.Stat(filepath.Join(dir, "94.md"))
	assert.NoError(t, err)
}

func TestMultiFileFormatterInvalidFormat(t *testing.T) {
	f := NewMultiFileFormatter(t.TempDir(), "html")
	assert.Error(t, f.Format(testReport()))
}
