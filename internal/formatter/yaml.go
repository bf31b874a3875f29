package formatter

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/refmap/internal/schema"
)

type votesDoc struct {
	Registered  int64  `yaml:"registered"`
	Abstentions int64  `yaml:"abstentions"`
	Null        int64  `yaml:"null"`
	ChoiceA     int64  `yaml:"choice_a"`
	ChoiceB     int64  `yaml:"choice_b"`
	Ratio       string `yaml:"ratio"`
}

type departmentDoc struct {
	Code  string   `yaml:"code_dep"`
	Name  string   `yaml:"name_dep"`
	Votes votesDoc `yaml:"votes"`
}

type regionDoc struct {
	Code        string          `yaml:"code_reg"`
	Name        string          `yaml:"name_reg"`
	Votes       votesDoc        `yaml:"votes"`
	Departments []departmentDoc `yaml:"departments,omitempty"`
}

type reportDoc struct {
	Regions []regionDoc `yaml:"regions"`
	Total   votesDoc    `yaml:"total"`
}

func newVotesDoc(v schema.VoteCounts) votesDoc {
	return votesDoc{
		Registered:  v.Registered,
		Abstentions: v.Abstentions,
		Null:        v.Null,
		ChoiceA:     v.ChoiceA,
		ChoiceB:     v.ChoiceB,
		Ratio:       formatRatio(v),
	}
}

// YAMLFormatter formats the results as a YAML document
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new yaml formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the region results and their national total
func (f *YAMLFormatter) Format(r *Report) error {
	doc := reportDoc{
		Regions: make([]regionDoc, 0, len(r.Regions)),
		Total:   newVotesDoc(totalVotes(r.Regions)),
	}
	for _, region := range r.Regions {
		doc.Regions = append(doc.Regions, regionDoc{
			Code:  region.RegionCode,
			Name:  region.RegionName,
			Votes: newVotesDoc(region.Votes),
		})
	}
	return f.encode(doc)
}

// FormatRegion writes one region with its departments
func (f *YAMLFormatter) FormatRegion(region schema.RegionResult, departments []schema.DepartmentResult) error {
	doc := regionDoc{
		Code:  region.RegionCode,
		Name:  region.RegionName,
		Votes: newVotesDoc(region.Votes),
	}
	for _, d := range departments {
		doc.Departments = append(doc.Departments, departmentDoc{
			Code:  d.DepartmentCode,
			Name:  d.DepartmentName,
			Votes: newVotesDoc(d.Votes),
		})
	}
	return f.encode(doc)
}

func (f *YAMLFormatter) encode(doc any) error {
	enc := yaml.NewEncoder(f.writer)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
