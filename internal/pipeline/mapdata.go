package pipeline

import (
	"math"

	"github.com/tordrt/refmap/internal/schema"
)

// Ratio returns ChoiceA / (ChoiceA + ChoiceB), or NaN when both are zero
func Ratio(v schema.VoteCounts) float64 {
	expressed := v.Expressed()
	if expressed == 0 {
		return math.NaN()
	}
	return float64(v.ChoiceA) / float64(expressed)
}

// BuildMap inner joins region results with their outline and attaches the ratio.
// The output follows the order of geometries.
func BuildMap(results []schema.RegionResult, geometries []schema.RegionGeometry) ([]schema.MapRecord, schema.MergeReport) {
	report := schema.MergeReport{
		Stage: StageMap,
		Left:  len(results),
		Right: len(geometries),
	}

	byCode := make(map[string][]schema.RegionResult, len(results))
	for _, res := range results {
		byCode[res.RegionCode] = append(byCode[res.RegionCode], res)
	}

	matched := make(map[string]bool, len(geometries))
	records := make([]schema.MapRecord, 0, len(geometries))
	for _, g := range geometries {
		for _, res := range byCode[g.Code] {
			records = append(records, schema.MapRecord{
				RegionResult: res,
				Geometry:     g.Geometry,
				Ratio:        Ratio(res.Votes),
			})
		}
		matched[g.Code] = true
	}

	for _, res := range results {
		if !matched[res.RegionCode] {
			report.Dropped++
		}
	}
	report.Output = len(records)

	return records, report
}
