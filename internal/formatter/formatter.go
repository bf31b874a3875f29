package formatter

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tordrt/refmap/internal/config"
	"github.com/tordrt/refmap/internal/pipeline"
	"github.com/tordrt/refmap/internal/schema"
)

const ratioPlaces = 4

// Report is the data printed by the formatters
type Report struct {
	Regions     []schema.RegionResult
	Departments []schema.DepartmentResult
}

// DepartmentsOf returns the departments belonging to a region, in report order
func (r *Report) DepartmentsOf(regionCode string) []schema.DepartmentResult {
	var res []schema.DepartmentResult
	for _, d := range r.Departments {
		if d.RegionCode == regionCode {
			res = append(res, d)
		}
	}
	return res
}

// Formatter writes a report to a single destination
type Formatter interface {
	Format(r *Report) error
	FormatRegion(region schema.RegionResult, departments []schema.DepartmentResult) error
}

// formatRatio renders the Choice A ratio with a fixed number of decimals, or "-" when undefined
func formatRatio(v schema.VoteCounts) string {
	r := pipeline.Ratio(v)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return "-"
	}
	return decimal.NewFromFloat(r).StringFixed(ratioPlaces)
}

func countCells(v schema.VoteCounts) []string {
	values := v.Values()
	cells := make([]string, len(values))
	for i, n := range values {
		cells[i] = strconv.FormatInt(n, 10)
	}
	return cells
}

func totalVotes(regions []schema.RegionResult) schema.VoteCounts {
	var total schema.VoteCounts
	for _, r := range regions {
		total = total.Add(r.Votes)
	}
	return total
}

// New returns the single-destination formatter for a format
func New(format config.Format, w io.Writer) (Formatter, error) {
	switch format {
	case config.FormatText:
		return NewTextFormatter(w), nil
	case config.FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case config.FormatYAML:
		return NewYAMLFormatter(w), nil
	}
	return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'yaml')", format)
}
