// Package pipeline joins the referendum, region and department tables and
// aggregates the ballots by region.
//
// Every stage takes its inputs by value, never modifies them and returns a
// freshly allocated table together with a schema.MergeReport so that rows lost
// in a join are visible to the caller.
package pipeline

import (
	"maps"
	"strings"

	"github.com/tordrt/refmap/internal/schema"
)

const (
	StageAreas      = "regions+departments"
	StageReferendum = "referendum+areas"
	StageMap        = "results+geometries"
)

// departmentCodeWidth is the width of metropolitan department codes ("01".."95", "2A")
const departmentCodeWidth = 2

// overseasMarker flags overseas departments, territories and citizens abroad
const overseasMarker = "Z"

// MergeRegionsAndDepartments inner joins departments to their region.
// Departments whose region code is unknown are dropped.
func MergeRegionsAndDepartments(regions []schema.Region, departments []schema.Department) ([]schema.Area, schema.MergeReport) {
	report := schema.MergeReport{
		Stage: StageAreas,
		Left:  len(departments),
		Right: len(regions),
	}

	byRegion := make(map[string][]schema.Department, len(regions))
	for _, dep := range departments {
		byRegion[dep.RegionCode] = append(byRegion[dep.RegionCode], dep)
	}

	matched := make(map[string]bool, len(regions))
	areas := make([]schema.Area, 0, len(departments))
	for _, reg := range regions {
		for _, dep := range byRegion[reg.Code] {
			areas = append(areas, schema.Area{
				RegionCode:     reg.Code,
				RegionName:     reg.Name,
				DepartmentCode: dep.Code,
				DepartmentName: dep.Name,
			})
		}
		matched[reg.Code] = true
	}

	for _, dep := range departments {
		if !matched[dep.RegionCode] {
			report.Dropped++
		}
	}
	report.Output = len(areas)

	return areas, report
}

// NormalizeDepartmentCode left-pads a department code with zeros to two characters
func NormalizeDepartmentCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= departmentCodeWidth {
		return code
	}
	return strings.Repeat("0", departmentCodeWidth-len(code)) + code
}

// IsOverseas reports whether a normalized department code lies outside metropolitan regions
func IsOverseas(code string) bool {
	return strings.Contains(code, overseasMarker)
}

// MergeReferendumAndAreas joins referendum rows to areas on the department code.
// Codes are normalized first and overseas codes are excluded before the join.
func MergeReferendumAndAreas(referendum []schema.Referendum, areas []schema.Area) ([]schema.ReferendumArea, schema.MergeReport) {
	report := schema.MergeReport{
		Stage: StageReferendum,
		Left:  len(referendum),
		Right: len(areas),
	}

	byDepartment := make(map[string][]schema.Area, len(areas))
	for _, area := range areas {
		byDepartment[area.DepartmentCode] = append(byDepartment[area.DepartmentCode], area)
	}

	merged := make([]schema.ReferendumArea, 0, len(referendum))
	for _, ref := range referendum {
		ref.DepartmentCode = NormalizeDepartmentCode(ref.DepartmentCode)
		ref.Extra = maps.Clone(ref.Extra)
		if IsOverseas(ref.DepartmentCode) {
			report.Excluded++
			continue
		}

		matches := byDepartment[ref.DepartmentCode]
		if len(matches) == 0 {
			report.Dropped++
			continue
		}
		for _, area := range matches {
			merged = append(merged, schema.ReferendumArea{
				Referendum: ref,
				Area:       area,
			})
		}
	}
	report.Output = len(merged)

	return merged, report
}
