package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tordrt/refmap"
	"github.com/tordrt/refmap/internal/config"
	"github.com/tordrt/refmap/internal/utils/logger"
)

var Version string

// flagKeys maps every flag to the configuration key it overrides
var flagKeys = map[string]string{
	"data-dir":     "data.dir",
	"format":       "output.format",
	"output":       "output.file",
	"output-dir":   "output.dir",
	"map":          "map.file",
	"no-map":       "map.disabled",
	"map-width":    "map.width",
	"map-height":   "map.height",
	"export-url":   "export.url",
	"export-table": "export.table",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// envOnlyKeys have no flag but can still be set from the environment
var envOnlyKeys = []string{
	"data.referendum",
	"data.regions",
	"data.departments",
	"data.geometry",
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		envFile string
		v       = viper.New()
		cfg     = config.NewConfig()
	)

	cmd := &cobra.Command{
		Use:   "refmap",
		Short: "Compute referendum results by region and draw them as a map",
		Long: "refmap joins referendum results per department with the regions and departments " +
			"tables, sums the votes per region, prints the result table and renders the share " +
			"of Choice A per region as an SVG map.",
		Version:      version(),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(envFile); err != nil {
				return err
			}
			if err := initConfig(v, cfgFile, cfg); err != nil {
				return err
			}
			return logger.SetLogLevel(cfg.Log.Level, cfg.Log.Format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Str("data_dir", cfg.Data.Dir).
				Str("format", string(cfg.Output.Format)).
				Bool("map", !cfg.Map.Disabled).
				Bool("export", cfg.Export.URL != "").
				Msg("configuration loaded")
			return refmap.Run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	defaults := config.NewConfig()
	flags := cmd.Flags()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml or json)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment, ignored when missing")
	flags.String("data-dir", defaults.Data.Dir, "directory holding referendum.csv, regions.csv, departments.csv and regions.geojson")
	flags.StringP("format", "f", string(defaults.Output.Format), "Output format: text, markdown or yaml")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.StringP("output-dir", "d", "", "Output directory for multi-file output")
	flags.String("map", defaults.Map.File, "SVG file the map is rendered to")
	flags.Bool("no-map", false, "skip loading geometries and rendering the map")
	flags.Int("map-width", defaults.Map.Width, "map width in pixels")
	flags.Int("map-height", defaults.Map.Height, "map height in pixels")
	flags.String("export-url", "", "export the results to a database (sqlite://, postgres://, mysql://)")
	flags.String("export-table", defaults.Export.Table, "table the results are exported to")
	flags.String("log-format", defaults.Log.Format, "logging format [text|json]")
	flags.String("log-level", zerolog.LevelInfoValue,
		fmt.Sprintf(
			"logging level %s|%s|%s",
			zerolog.LevelDebugValue,
			zerolog.LevelInfoValue,
			zerolog.LevelWarnValue,
		),
	)

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Fatal().Err(err).Str("flag", name).Msg("cannot bind flag")
		}
	}

	return cmd
}

func version() string {
	var commit, commitDate string
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				commit = setting.Value
			case "vcs.time":
				commitDate = setting.Value
			}
		}
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", Version, commit, commitDate))
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// initConfig layers the config file, the environment and the flags into cfg
func initConfig(v *viper.Viper, cfgFile string, cfg *config.Config) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading from config file: %w", err)
		}
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("cannot bind env for %s: %w", key, err)
		}
	}

	return config.Unmarshal(v, cfg)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
