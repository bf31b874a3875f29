package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

const (
	defaultDataDir     = "data"
	defaultReferendum  = "referendum.csv"
	defaultRegions     = "regions.csv"
	defaultDepartments = "departments.csv"
	defaultGeometry    = "regions.geojson"
	defaultMapFile     = "referendum_map.svg"
	defaultMapWidth    = 800
	defaultMapHeight   = 800
	defaultExportTable = "referendum_results"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	EnvPrefix          = "REFMAP"
)

// Format is the output format of the region table
type Format string

// UnmarshalText accepts a format name case-insensitively
func (f *Format) UnmarshalText(text []byte) error {
	v := Format(strings.ToLower(strings.TrimSpace(string(text))))
	if v == "" {
		v = FormatText
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*f = v
	return nil
}

// Validate checks that the format is supported
func (f Format) Validate() error {
	switch f {
	case FormatText, FormatMarkdown, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'yaml')", f)
}

// Extension returns the file extension used for the format
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatYAML:
		return ".yaml"
	}
	return ".txt"
}

type Config struct {
	Data   DataConfig   `mapstructure:"data" yaml:"data" json:"data"`
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
	Map    MapConfig    `mapstructure:"map" yaml:"map" json:"map"`
	Export ExportConfig `mapstructure:"export" yaml:"export" json:"export"`
	Log    LogConfig    `mapstructure:"log" yaml:"log" json:"log"`
}

// DataConfig locates the input files. Empty file paths resolve inside Dir.
type DataConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir" json:"dir,omitempty"`
	Referendum  string `mapstructure:"referendum" yaml:"referendum,omitempty" json:"referendum,omitempty"`
	Regions     string `mapstructure:"regions" yaml:"regions,omitempty" json:"regions,omitempty"`
	Departments string `mapstructure:"departments" yaml:"departments,omitempty" json:"departments,omitempty"`
	Geometry    string `mapstructure:"geometry" yaml:"geometry,omitempty" json:"geometry,omitempty"`
}

type OutputConfig struct {
	Format Format `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`
	Dir    string `mapstructure:"dir" yaml:"dir,omitempty" json:"dir,omitempty"`
}

type MapConfig struct {
	File     string `mapstructure:"file" yaml:"file" json:"file"`
	Disabled bool   `mapstructure:"disabled" yaml:"disabled" json:"disabled,omitempty"`
	Width    int    `mapstructure:"width" yaml:"width" json:"width"`
	Height   int    `mapstructure:"height" yaml:"height" json:"height"`
}

// ExportConfig enables writing the map table to a database when URL is set
type ExportConfig struct {
	URL   string `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty"`
	Table string `mapstructure:"table" yaml:"table" json:"table"`
}

type LogConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
}

func NewConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: defaultDataDir,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
		Map: MapConfig{
			File:   defaultMapFile,
			Width:  defaultMapWidth,
			Height: defaultMapHeight,
		},
		Export: ExportConfig{
			Table: defaultExportTable,
		},
		Log: LogConfig{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// ReferendumPath returns the referendum file path
func (c *DataConfig) ReferendumPath() string {
	return c.resolve(c.Referendum, defaultReferendum)
}

// RegionsPath returns the regions file path
func (c *DataConfig) RegionsPath() string {
	return c.resolve(c.Regions, defaultRegions)
}

// DepartmentsPath returns the departments file path
func (c *DataConfig) DepartmentsPath() string {
	return c.resolve(c.Departments, defaultDepartments)
}

// GeometryPath returns the region outlines file path
func (c *DataConfig) GeometryPath() string {
	return c.resolve(c.Geometry, defaultGeometry)
}

func (c *DataConfig) resolve(path, name string) string {
	if path != "" {
		return path
	}
	return filepath.Join(c.Dir, name)
}

// Validate rejects unsupported or conflicting settings
func (c *Config) Validate() error {
	var errs []error
	if err := c.Output.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Output.File != "" && c.Output.Dir != "" {
		errs = append(errs, errors.New("cannot use both output.file and output.dir"))
	}
	if !c.Map.Disabled {
		if c.Map.File == "" {
			errs = append(errs, errors.New("map.file is required unless map.disabled is set"))
		}
		if c.Map.Width <= 0 || c.Map.Height <= 0 {
			errs = append(errs, fmt.Errorf("map size must be positive, got %dx%d", c.Map.Width, c.Map.Height))
		}
	}
	if c.Export.URL != "" && c.Export.Table == "" {
		errs = append(errs, errors.New("export.table is required when export.url is set"))
	}
	return errors.Join(errs...)
}
