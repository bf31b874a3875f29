package formatter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tordrt/refmap/internal/config"
)

const overviewName = "_overview"

// MultiFileFormatter writes an overview plus one file per region in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat config.Format
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir string, format config.Format) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the overview file and the per-region files
func (f *MultiFileFormatter) Format(r *Report) error {
	if err := f.OutputFormat.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile(overviewName, func(w Formatter) error { return w.Format(r) }); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, region := range r.Regions {
		departments := r.DepartmentsOf(region.RegionCode)
		err := f.writeFile(region.RegionCode, func(w Formatter) error {
			return w.FormatRegion(region, departments)
		})
		if err != nil {
			return fmt.Errorf("failed to write region file for %s: %w", region.RegionCode, err)
		}
	}

	return nil
}

// FilePath returns the path of the file written for name
func (f *MultiFileFormatter) FilePath(name string) string {
	return filepath.Join(f.OutputDir, name+f.OutputFormat.Extension())
}

func (f *MultiFileFormatter) writeFile(name string, write func(w Formatter) error) (err error) {
	path := f.FilePath(name)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w, err := New(f.OutputFormat, file)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		return err
	}

	log.Debug().Str("path", path).Msg("report file written")
	return nil
}
