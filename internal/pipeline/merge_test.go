package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/refmap/internal/schema"
)

func TestNormalizeDepartmentCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "single digit", code: "1", want: "01"},
		{name: "already padded", code: "01", want: "01"},
		{name: "two digits", code: "75", want: "75"},
		{name: "corsica", code: "2A", want: "2A"},
		{name: "three digits", code: "971", want: "971"},
		{name: "overseas marker", code: "ZA", want: "ZA"},
		{name: "surrounding spaces", code: " 5 ", want: "05"},
		{name: "empty", code: "", want: "00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDepartmentCode(tt.code))
		})
	}
}

func TestMergeRegionsAndDepartments(t *testing.T) {
	regions := []schema.Region{
		{Code: "84", Name: "Auvergne-Rhône-Alpes"},
		{Code: "11", Name: "Île-de-France"},
	}
	departments := []schema.Department{
		{RegionCode: "84", Code: "01", Name: "Ain"},
		{RegionCode: "11", Code: "75", Name: "Paris"},
		{RegionCode: "COM", Code: "975", Name: "Saint-Pierre-et-Miquelon"},
		{RegionCode: "84", Code: "03", Name: "Allier"},
	}

	areas, report := MergeRegionsAndDepartments(regions, departments)

	assert.Equal(t, []schema.Area{
		{RegionCode: "84", RegionName: "Auvergne-Rhône-Alpes", DepartmentCode: "01", DepartmentName: "Ain"},
		{RegionCode: "84", RegionName: "Auvergne-Rhône-Alpes", DepartmentCode: "03", DepartmentName: "Allier"},
		{RegionCode: "11", RegionName: "Île-de-France", DepartmentCode: "75", DepartmentName: "Paris"},
	}, areas)
	assert.Equal(t, schema.MergeReport{
		Stage:   StageAreas,
		Left:    4,
		Right:   2,
		Output:  3,
		Dropped: 1,
	}, report)
}

func TestMergeRegionsAndDepartmentsRowCount(t *testing.T) {
	regions := []schema.Region{{Code: "84", Name: "Auvergne-Rhône-Alpes"}}

	t.Run("all regions known", func(t *testing.T) {
		departments := []schema.Department{
			{RegionCode: "84", Code: "01", Name: "Ain"},
			{RegionCode: "84", Code: "03", Name: "Allier"},
		}
		areas, report := MergeRegionsAndDepartments(regions, departments)
		assert.Len(t, areas, len(departments))
		assert.Zero(t, report.Dropped)
	})

	t.Run("unknown region", func(t *testing.T) {
		departments := []schema.Department{
			{RegionCode: "84", Code: "01", Name: "Ain"},
			{RegionCode: "NA", Code: "976", Name: "Mayotte"},
		}
		areas, report := MergeRegionsAndDepartments(regions, departments)
		assert.Less(t, len(areas), len(departments))
		assert.Equal(t, 1, report.Dropped)
	})
}

func TestMergeRegionsAndDepartmentsDoesNotModifyInputs(t *testing.T) {
	regions := []schema.Region{{Code: "84", Name: "Auvergne-Rhône-Alpes"}}
	departments := []schema.Department{{RegionCode: "84", Code: "01", Name: "Ain"}}

	areas, _ := MergeRegionsAndDepartments(regions, departments)
	areas[0].RegionName = "changed"

	assert.Equal(t, "Auvergne-Rhône-Alpes", regions[0].Name)
	assert.Equal(t, "Ain", departments[0].Name)
}

func TestMergeReferendumAndAreas(t *testing.T) {
	areas := []schema.Area{
		{RegionCode: "84", RegionName: "Auvergne-Rhône-Alpes", DepartmentCode: "01", DepartmentName: "Ain"},
		{RegionCode: "94", RegionName: "Corse", DepartmentCode: "2A", DepartmentName: "Corse-du-Sud"},
	}
	referendum := []schema.Referendum{
		{
			DepartmentCode: "1",
			DepartmentName: "AIN",
			Votes:          schema.VoteCounts{Registered: 100, Abstentions: 20, Null: 5, ChoiceA: 40, ChoiceB: 35},
			Extra:          map[string]string{"Town code": "1", "Town name": "L'Abergement-Clémenciat"},
		},
		{DepartmentCode: "2A", DepartmentName: "CORSE DU SUD", Votes: schema.VoteCounts{Registered: 10, ChoiceA: 3, ChoiceB: 4}},
		{DepartmentCode: "ZA", DepartmentName: "GUADELOUPE", Votes: schema.VoteCounts{Registered: 50, ChoiceA: 10, ChoiceB: 20}},
		{DepartmentCode: "ZZ", DepartmentName: "FRANCAIS DE L'ETRANGER", Votes: schema.VoteCounts{Registered: 70}},
		{DepartmentCode: "99", DepartmentName: "UNKNOWN", Votes: schema.VoteCounts{Registered: 1}},
	}

	merged, report := MergeReferendumAndAreas(referendum, areas)

	require.Len(t, merged, 2)
	assert.Equal(t, "01", merged[0].Referendum.DepartmentCode)
	assert.Equal(t, "AIN", merged[0].Referendum.DepartmentName)
	assert.Equal(t, areas[0], merged[0].Area)
	assert.Equal(t, "L'Abergement-Clémenciat", merged[0].Extra["Town name"])
	assert.Equal(t, int64(40), merged[0].Votes.ChoiceA)
	assert.Equal(t, areas[1], merged[1].Area)

	assert.Equal(t, schema.MergeReport{
		Stage:    StageReferendum,
		Left:     5,
		Right:    2,
		Excluded: 2,
		Output:   2,
		Dropped:  1,
	}, report)

	assert.Equal(t, "1", referendum[0].DepartmentCode, "input must not be modified")
	merged[0].Extra["Town name"] = "changed"
	assert.Equal(t, "L'Abergement-Clémenciat", referendum[0].Extra["Town name"])
}

func TestMergeReferendumAndAreasExcludesOverseas(t *testing.T) {
	// an area table that would match the overseas code must not matter
	areas := []schema.Area{
		{RegionCode: "01", RegionName: "Guadeloupe", DepartmentCode: "ZA", DepartmentName: "Guadeloupe"},
	}
	referendum := []schema.Referendum{
		{DepartmentCode: "ZA", DepartmentName: "GUADELOUPE", Votes: schema.VoteCounts{Registered: 50}},
	}

	merged, report := MergeReferendumAndAreas(referendum, areas)

	assert.Empty(t, merged)
	assert.Equal(t, 1, report.Excluded)
	assert.Zero(t, report.Dropped)
	for _, row := range merged {
		assert.NotContains(t, row.Referendum.DepartmentCode, "Z")
	}
}
