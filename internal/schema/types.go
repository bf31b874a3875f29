package schema

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Column headers used by the input files and the printed tables
const (
	ColDepartmentCode = "Department code"
	ColDepartmentName = "Department name"
	ColRegistered     = "Registered"
	ColAbstentions    = "Abstentions"
	ColNull           = "Null"
	ColChoiceA        = "Choice A"
	ColChoiceB        = "Choice B"

	ColCodeReg = "code_reg"
	ColNameReg = "name_reg"
	ColCodeDep = "code_dep"
	ColNameDep = "name_dep"
	ColRatio   = "ratio"
)

// VoteColumns lists the vote count columns in output order
var VoteColumns = []string{ColRegistered, ColAbstentions, ColNull, ColChoiceA, ColChoiceB}

// VoteCounts holds the five ballot counters of a referendum row
type VoteCounts struct {
	Registered  int64
	Abstentions int64
	Null        int64
	ChoiceA     int64
	ChoiceB     int64
}

// Add returns the field-wise sum of two counters
func (v VoteCounts) Add(o VoteCounts) VoteCounts {
	return VoteCounts{
		Registered:  v.Registered + o.Registered,
		Abstentions: v.Abstentions + o.Abstentions,
		Null:        v.Null + o.Null,
		ChoiceA:     v.ChoiceA + o.ChoiceA,
		ChoiceB:     v.ChoiceB + o.ChoiceB,
	}
}

// Expressed returns the number of ballots cast for either choice
func (v VoteCounts) Expressed() int64 {
	return v.ChoiceA + v.ChoiceB
}

// Values returns the counters in VoteColumns order
func (v VoteCounts) Values() []int64 {
	return []int64{v.Registered, v.Abstentions, v.Null, v.ChoiceA, v.ChoiceB}
}

// Referendum represents one row of the referendum file
type Referendum struct {
	DepartmentCode string
	DepartmentName string
	Votes          VoteCounts
	Extra          map[string]string // source columns outside the known schema
}

// Region represents an administrative region
type Region struct {
	Code string
	Name string
}

// Department represents an administrative department
type Department struct {
	RegionCode string
	Code       string
	Name       string
}

// Area is a department joined with its region
type Area struct {
	RegionCode     string // code_reg
	RegionName     string // name_reg
	DepartmentCode string // code_dep
	DepartmentName string // name_dep
}

// ReferendumArea is a referendum row joined with its area
type ReferendumArea struct {
	Referendum
	Area
}

// RegionResult holds the vote counts summed over a region
type RegionResult struct {
	RegionCode string
	RegionName string
	Votes      VoteCounts
}

// DepartmentResult holds the vote counts summed over a department
type DepartmentResult struct {
	RegionCode     string
	DepartmentCode string
	DepartmentName string
	Votes          VoteCounts
}

// RegionGeometry is the outline of a region keyed by its code
type RegionGeometry struct {
	Code     string
	Name     string
	Geometry geom.T
}

// MapRecord is a region result joined with its outline
type MapRecord struct {
	RegionResult
	Geometry geom.T
	Ratio    float64 // NaN when no ballot was cast for either choice
}

// HasRatio reports whether the ratio is a finite number
func (m MapRecord) HasRatio() bool {
	return !math.IsNaN(m.Ratio) && !math.IsInf(m.Ratio, 0)
}

// MergeReport describes how many rows a join stage kept and lost
type MergeReport struct {
	Stage    string
	Left     int // rows of the left input
	Right    int // rows of the right input
	Excluded int // left rows filtered out before the join
	Output   int
	Dropped  int // left rows without a match on the right
}
