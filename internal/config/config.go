package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read from the working directory when no
// other path is given.
const DefaultPath = "labelcritic.yaml"

// Config holds file locations and analysis settings. Zero values are
// replaced by defaults after the file and the environment are applied.
type Config struct {
	ReportPath          string  `yaml:"report_path"`
	ChangeLogPath       string  `yaml:"change_log_path"`
	CorrectedReportPath string  `yaml:"corrected_report_path"`
	VisDir              string  `yaml:"vis_dir"`
	TestDataDir         string  `yaml:"test_data_dir"`
	ScoresPath          string  `yaml:"scores_path"`
	Profile             string  `yaml:"profile"`
	Threshold           float64 `yaml:"threshold"`

	// Source is the file the config was read from, empty when none was found.
	Source string `yaml:"-"`
}

// Load reads the config file, applies environment overrides, then fills
// defaults. path selects the file; when empty, LABELCRITIC_CONFIG and then
// DefaultPath are tried. A missing file is only an error when it was named
// explicitly.
func Load(path string) (*Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultPath
		if envPath := os.Getenv("LABELCRITIC_CONFIG"); envPath != "" {
			path, explicit = envPath, true
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	envOverride(&cfg.ReportPath, "LABELCRITIC_REPORT")
	envOverride(&cfg.ChangeLogPath, "LABELCRITIC_CHANGE_LOG")
	envOverride(&cfg.CorrectedReportPath, "LABELCRITIC_CORRECTED_REPORT")
	envOverride(&cfg.VisDir, "LABELCRITIC_VIS_DIR")
	envOverride(&cfg.TestDataDir, "LABELCRITIC_TEST_DATA_DIR")
	envOverride(&cfg.Profile, "LABELCRITIC_PROFILE")
	if err := envOverrideFloat(&cfg.Threshold, "LABELCRITIC_THRESHOLD"); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config holding only the defaults.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.ReportPath == "" {
		c.ReportPath = "prediction_report.csv"
	}
	if c.ChangeLogPath == "" {
		c.ChangeLogPath = "change_log.txt"
	}
	if c.CorrectedReportPath == "" {
		c.CorrectedReportPath = "prediction_report_v2_corrected.csv"
	}
	if c.VisDir == "" {
		c.VisDir = "output_visualizations"
	}
	if c.ScoresPath == "" {
		c.ScoresPath = "scores.csv"
	}
	if c.Profile == "" {
		c.Profile = "center"
	}
	if c.Threshold == 0 {
		c.Threshold = 0.5
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold %v must be within (0, 1)", c.Threshold)
	}
	return nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}
