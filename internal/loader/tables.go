package loader

import (
	"github.com/tordrt/refmap/internal/schema"
)

const (
	referendumComma = ';'
	areaComma       = ','
)

var referendumColumns = []string{
	schema.ColDepartmentCode,
	schema.ColDepartmentName,
	schema.ColRegistered,
	schema.ColAbstentions,
	schema.ColNull,
	schema.ColChoiceA,
	schema.ColChoiceB,
}

// LoadReferendum reads the semicolon separated referendum file
func LoadReferendum(path string) ([]schema.Referendum, error) {
	t, err := readCSV(path, referendumComma, referendumColumns...)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(referendumColumns))
	for _, c := range referendumColumns {
		known[c] = true
	}

	res := make([]schema.Referendum, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		var votes schema.VoteCounts
		counters := []struct {
			column string
			dst    *int64
		}{
			{schema.ColRegistered, &votes.Registered},
			{schema.ColAbstentions, &votes.Abstentions},
			{schema.ColNull, &votes.Null},
			{schema.ColChoiceA, &votes.ChoiceA},
			{schema.ColChoiceB, &votes.ChoiceB},
		}
		for _, c := range counters {
			if *c.dst, err = t.count(row, line, c.column); err != nil {
				return nil, err
			}
		}

		res = append(res, schema.Referendum{
			DepartmentCode: t.value(row, schema.ColDepartmentCode),
			DepartmentName: t.value(row, schema.ColDepartmentName),
			Votes:          votes,
			Extra:          t.extra(row, known),
		})
	}
	return res, nil
}

// LoadRegions reads the regions file. Only the code and name columns are kept.
func LoadRegions(path string) ([]schema.Region, error) {
	t, err := readCSV(path, areaComma, "code", "name")
	if err != nil {
		return nil, err
	}

	res := make([]schema.Region, 0, len(t.rows))
	for _, row := range t.rows {
		res = append(res, schema.Region{
			Code: t.value(row, "code"),
			Name: t.value(row, "name"),
		})
	}
	return res, nil
}

// LoadDepartments reads the departments file. Only the region code, code and name columns are kept.
func LoadDepartments(path string) ([]schema.Department, error) {
	t, err := readCSV(path, areaComma, "region_code", "code", "name")
	if err != nil {
		return nil, err
	}

	res := make([]schema.Department, 0, len(t.rows))
	for _, row := range t.rows {
		res = append(res, schema.Department{
			RegionCode: t.value(row, "region_code"),
			Code:       t.value(row, "code"),
			Name:       t.value(row, "name"),
		})
	}
	return res, nil
}
