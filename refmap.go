// Package refmap computes referendum results per region and draws them as a map.
//
// The pipeline loads three tables (referendum results per department, regions,
// departments), joins them, sums the vote counts per region and joins the sums
// with the region outlines to obtain the map table, where each region carries
// the share of Choice A among the expressed ballots.
//
// # Quick Start
//
// The simplest way to use this package is with Run:
//
//	cfg := config.NewConfig()
//	cfg.Data.Dir = "data"
//	err := refmap.Run(context.Background(), cfg, os.Stdout)
//
// # Input Files
//
// All files live in the data directory unless configured otherwise:
//   - referendum.csv: ';' separated, one row per department (or town)
//   - regions.csv: ',' separated, columns code and name
//   - departments.csv: ',' separated, columns region_code, code and name
//   - regions.geojson: one feature per region with a "code" property
//
// # Joins
//
// Every join is an inner join. Rows without a match are dropped and logged at
// warn level. Referendum department codes are left padded with zeros to two
// characters and codes containing "Z" (overseas and abroad) are excluded.
package refmap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tordrt/refmap/internal/config"
	"github.com/tordrt/refmap/internal/db"
	"github.com/tordrt/refmap/internal/formatter"
	"github.com/tordrt/refmap/internal/loader"
	"github.com/tordrt/refmap/internal/pipeline"
	"github.com/tordrt/refmap/internal/render"
	"github.com/tordrt/refmap/internal/schema"
)

// ErrEmptyResult is returned when the joins leave no region to report
var ErrEmptyResult = errors.New("no region result: the input tables share no key")

// Tables holds the loaded input tables
type Tables struct {
	Referendum  []schema.Referendum
	Regions     []schema.Region
	Departments []schema.Department
}

// Result holds every intermediate table of the computation.
//
// Reports lists one entry per join stage, in execution order.
type Result struct {
	Areas           []schema.Area
	ReferendumAreas []schema.ReferendumArea
	Regions         []schema.RegionResult
	Departments     []schema.DepartmentResult
	Reports         []schema.MergeReport
}

// OutputOptions configures where the region table is printed.
//
// Single-file (Writer): the whole table in one document
//
//	&OutputOptions{Writer: os.Stdout}
//
// Multi-file (OutputDir): creates _overview.<ext> + one file per region with
// its department breakdown
//
//	&OutputOptions{OutputDir: "report", Format: config.FormatMarkdown}
//
// If both are specified, OutputDir takes precedence and Writer is ignored.
// If neither is specified, output goes to os.Stdout.
type OutputOptions struct {
	Writer    io.Writer
	OutputDir string
	// Format defaults to text
	Format config.Format
}

// LoadTables reads the referendum, regions and departments files
func LoadTables(data config.DataConfig) (*Tables, error) {
	referendum, err := loader.LoadReferendum(data.ReferendumPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load referendum: %w", err)
	}

	regions, err := loader.LoadRegions(data.RegionsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}

	departments, err := loader.LoadDepartments(data.DepartmentsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}

	log.Debug().
		Int("referendum", len(referendum)).
		Int("regions", len(regions)).
		Int("departments", len(departments)).
		Msg("tables loaded")

	return &Tables{Referendum: referendum, Regions: regions, Departments: departments}, nil
}

// Compute joins the tables and sums the votes per region and per department.
//
// It returns ErrEmptyResult when no referendum row reaches a region.
// The input tables are not modified.
func Compute(t *Tables) (*Result, error) {
	areas, areaReport := pipeline.MergeRegionsAndDepartments(t.Regions, t.Departments)
	logReport(areaReport)

	rows, refReport := pipeline.MergeReferendumAndAreas(t.Referendum, areas)
	logReport(refReport)

	res := &Result{
		Areas:           areas,
		ReferendumAreas: rows,
		Regions:         pipeline.ComputeResultByRegions(rows),
		Departments:     pipeline.ComputeResultByDepartments(rows),
		Reports:         []schema.MergeReport{areaReport, refReport},
	}
	if len(res.Regions) == 0 {
		return res, ErrEmptyResult
	}
	return res, nil
}

// BuildMap joins the region results with the outlines read from path
func BuildMap(res *Result, geometryPath string) ([]schema.MapRecord, error) {
	geometries, err := loader.LoadGeometries(geometryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load geometries: %w", err)
	}

	records, report := pipeline.BuildMap(res.Regions, geometries)
	logReport(report)
	res.Reports = append(res.Reports, report)

	if len(records) == 0 {
		return nil, fmt.Errorf("failed to build map: %w", ErrEmptyResult)
	}
	return records, nil
}

// FormatResult prints the region table (and, in multi-file mode, the departments)
func FormatResult(res *Result, opts *OutputOptions) error {
	if opts == nil {
		opts = &OutputOptions{}
	}
	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	report := &formatter.Report{Regions: res.Regions, Departments: res.Departments}

	// Multi-file output
	if opts.OutputDir != "" {
		return formatter.NewMultiFileFormatter(opts.OutputDir, format).Format(report)
	}

	// Single-file output
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	f, err := formatter.New(format, writer)
	if err != nil {
		return err
	}
	return f.Format(report)
}

// RenderMap writes the map records as an SVG file
func RenderMap(records []schema.MapRecord, m config.MapConfig) (err error) {
	file, err := os.Create(m.File)
	if err != nil {
		return fmt.Errorf("failed to create map file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close map file: %w", closeErr)
		}
	}()

	r := render.NewSVGRenderer(file, render.Options{Width: m.Width, Height: m.Height})
	if err := r.Render(records); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}

	log.Info().Str("path", m.File).Int("regions", len(records)).Msg("map written")
	return nil
}

// ExportRecords returns one record per region result with its ratio and no outline
func ExportRecords(regions []schema.RegionResult) []schema.MapRecord {
	records := make([]schema.MapRecord, len(regions))
	for i, r := range regions {
		records[i] = schema.MapRecord{RegionResult: r, Ratio: pipeline.Ratio(r.Votes)}
	}
	return records
}

// Run executes the whole pipeline described by cfg.
//
// The region table is printed to w (or to cfg.Output.File / cfg.Output.Dir),
// the map is rendered to cfg.Map.File unless disabled and the results are
// exported when cfg.Export.URL is set.
func Run(ctx context.Context, cfg *config.Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	tables, err := LoadTables(cfg.Data)
	if err != nil {
		return err
	}

	res, err := Compute(tables)
	if err != nil {
		return err
	}

	out := &OutputOptions{Writer: w, OutputDir: cfg.Output.Dir, Format: cfg.Output.Format}
	if cfg.Output.File != "" {
		f, err := os.Create(cfg.Output.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("failed to close output file")
			}
		}()
		out.Writer = f
	}
	if err := FormatResult(res, out); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if !cfg.Map.Disabled {
		records, err := BuildMap(res, cfg.Data.GeometryPath())
		if err != nil {
			return err
		}
		if err := RenderMap(records, cfg.Map); err != nil {
			return err
		}
	}

	if cfg.Export.URL != "" {
		if err := db.Export(ctx, cfg.Export.URL, cfg.Export.Table, ExportRecords(res.Regions)); err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
		log.Info().Str("table", cfg.Export.Table).Int("rows", len(res.Regions)).Msg("results exported")
	}

	return nil
}

func logReport(r schema.MergeReport) {
	log.Debug().
		Str("stage", r.Stage).
		Int("left", r.Left).
		Int("right", r.Right).
		Int("excluded", r.Excluded).
		Int("output", r.Output).
		Int("dropped", r.Dropped).
		Msg("join done")

	if r.Dropped > 0 {
		log.Warn().
			Str("stage", r.Stage).
			Int("dropped", r.Dropped).
			Int("left", r.Left).
			Msg("rows without a match were dropped")
	}
}
