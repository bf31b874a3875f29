package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/refmap/internal/schema"
)

// MarkdownFormatter formats the results as markdown tables
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the region result table
func (f *MarkdownFormatter) Format(r *Report) error {
	_, _ = fmt.Fprintln(f.writer, "# Referendum results by region")
	_, _ = fmt.Fprintln(f.writer)

	header := append([]string{schema.ColCodeReg, schema.ColNameReg}, schema.VoteColumns...)
	f.writeRow(append(header, schema.ColRatio))
	f.writeSeparator(len(header) + 1)

	for _, region := range r.Regions {
		row := append([]string{region.RegionCode, region.RegionName}, countCells(region.Votes)...)
		f.writeRow(append(row, formatRatio(region.Votes)))
	}

	total := totalVotes(r.Regions)
	row := append([]string{"", "**total**"}, countCells(total)...)
	f.writeRow(append(row, formatRatio(total)))
	_, _ = fmt.Fprintln(f.writer)

	return nil
}

// FormatRegion writes one region and its departments (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatRegion(region schema.RegionResult, departments []schema.DepartmentResult) error {
	_, _ = fmt.Fprintf(f.writer, "## %s (%s)\n\n", region.RegionName, region.RegionCode)
	_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", schema.ColRatio, formatRatio(region.Votes))
	for i, col := range schema.VoteColumns {
		_, _ = fmt.Fprintf(f.writer, "- **%s:** %d\n", col, region.Votes.Values()[i])
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(departments) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(f.writer, "### Departments")
	_, _ = fmt.Fprintln(f.writer)

	header := append([]string{schema.ColCodeDep, schema.ColNameDep}, schema.VoteColumns...)
	f.writeRow(append(header, schema.ColRatio))
	f.writeSeparator(len(header) + 1)
	for _, d := range departments {
		row := append([]string{d.DepartmentCode, d.DepartmentName}, countCells(d.Votes)...)
		f.writeRow(append(row, formatRatio(d.Votes)))
	}
	_, _ = fmt.Fprintln(f.writer)

	return nil
}

func (f *MarkdownFormatter) writeRow(cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	_, _ = fmt.Fprintf(f.writer, "| %s |\n", strings.Join(escaped, " | "))
}

func (f *MarkdownFormatter) writeSeparator(n int) {
	_, _ = fmt.Fprintf(f.writer, "|%s\n", strings.Repeat(" --- |", n))
}
