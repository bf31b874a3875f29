package formatter

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/tordrt/refmap/internal/schema"
)

// TextFormatter prints the region table as an ASCII grid
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the region result table indexed by region code
func (f *TextFormatter) Format(r *Report) error {
	header := append([]string{schema.ColCodeReg, schema.ColNameReg}, schema.VoteColumns...)

	data := make([][]string, 0, len(r.Regions))
	for _, region := range r.Regions {
		row := append([]string{region.RegionCode, region.RegionName}, countCells(region.Votes)...)
		data = append(data, row)
	}

	table := f.newTable(header)
	table.AppendBulk(data)
	table.SetFooter(append([]string{"", "total"}, countCells(totalVotes(r.Regions))...))
	table.Render()
	return nil
}

// FormatRegion writes one region and its departments
func (f *TextFormatter) FormatRegion(region schema.RegionResult, departments []schema.DepartmentResult) error {
	_, _ = fmt.Fprintf(f.writer, "REGION %s %s\n", region.RegionCode, region.RegionName)
	_, _ = fmt.Fprintf(f.writer, "  ratio: %s\n\n", formatRatio(region.Votes))

	header := append([]string{schema.ColCodeDep, schema.ColNameDep}, schema.VoteColumns...)
	header = append(header, schema.ColRatio)

	data := make([][]string, 0, len(departments))
	for _, d := range departments {
		row := append([]string{d.DepartmentCode, d.DepartmentName}, countCells(d.Votes)...)
		data = append(data, append(row, formatRatio(d.Votes)))
	}

	table := f.newTable(header)
	table.AppendBulk(data)
	table.Render()
	return nil
}

func (f *TextFormatter) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(f.writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}
