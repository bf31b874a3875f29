package pipeline

import (
	"cmp"
	"slices"

	"github.com/tordrt/refmap/internal/schema"
)

type regionKey struct {
	code string
	name string
}

// ComputeResultByRegions sums the vote counts of every region present in rows.
// Rows are grouped by region code and name; the result is ordered by that pair.
func ComputeResultByRegions(rows []schema.ReferendumArea) []schema.RegionResult {
	sums := make(map[regionKey]schema.VoteCounts)
	for _, row := range rows {
		key := regionKey{code: row.RegionCode, name: row.RegionName}
		sums[key] = sums[key].Add(row.Votes)
	}

	results := make([]schema.RegionResult, 0, len(sums))
	for key, votes := range sums {
		results = append(results, schema.RegionResult{
			RegionCode: key.code,
			RegionName: key.name,
			Votes:      votes,
		})
	}
	slices.SortFunc(results, func(a, b schema.RegionResult) int {
		return cmp.Or(
			cmp.Compare(a.RegionCode, b.RegionCode),
			cmp.Compare(a.RegionName, b.RegionName),
		)
	})

	return results
}

type departmentKey struct {
	region string
	code   string
	name   string
}

// ComputeResultByDepartments sums the vote counts of every department present in rows
func ComputeResultByDepartments(rows []schema.ReferendumArea) []schema.DepartmentResult {
	sums := make(map[departmentKey]schema.VoteCounts)
	for _, row := range rows {
		key := departmentKey{region: row.RegionCode, code: row.Area.DepartmentCode, name: row.Area.DepartmentName}
		sums[key] = sums[key].Add(row.Votes)
	}

	results := make([]schema.DepartmentResult, 0, len(sums))
	for key, votes := range sums {
		results = append(results, schema.DepartmentResult{
			RegionCode:     key.region,
			DepartmentCode: key.code,
			DepartmentName: key.name,
			Votes:          votes,
		})
	}
	slices.SortFunc(results, func(a, b schema.DepartmentResult) int {
		return cmp.Or(
			cmp.Compare(a.RegionCode, b.RegionCode),
			cmp.Compare(a.DepartmentCode, b.DepartmentCode),
			cmp.Compare(a.DepartmentName, b.DepartmentName),
		)
	})

	return results
}
