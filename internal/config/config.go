package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Sheets  SheetsConfig  `mapstructure:"sheets"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SheetsConfig controls which worksheets the repair pass visits
type SheetsConfig struct {
	Prefix string `mapstructure:"prefix"` // Worksheet name prefix, matched case-insensitively
}

// LayoutConfig describes the record-block layout of the report template
type LayoutConfig struct {
	MarkerColumn int          `mapstructure:"marker_column"` // 1-based column probed for the block marker
	BlockRows    int          `mapstructure:"block_rows"`    // Rows per block, content plus spacing
	Merges       []MergeRange `mapstructure:"merges"`        // Merge directives re-applied per block
}

// MergeRange is one merge directive: a cell rectangle whose rows are
// expressed as offsets from the first row of a block
type MergeRange struct {
	StartRow int `mapstructure:"start_row"` // Row offset from the block's first row (0 = first row)
	StartCol int `mapstructure:"start_col"` // 1-based start column
	EndRow   int `mapstructure:"end_row"`   // Row offset of the rectangle's last row
	EndCol   int `mapstructure:"end_col"`   // 1-based end column
}

// ReportConfig holds repair-summary output settings
type ReportConfig struct {
	Formats  []string `mapstructure:"formats"`  // Summary formats written after a run (docx, json)
	Dir      string   `mapstructure:"dir"`      // Summary directory; empty = next to the workbook
	Template string   `mapstructure:"template"` // Custom docx template path; empty = built-in
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	File string `mapstructure:"file"` // Log file path; empty = console only
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses the built-in template layout
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}

	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			// Config file not found - the built-in layout matches the
			// performance report template the generator ships today
			fmt.Println("Config file not found. Using built-in template layout.")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper defaults don't cover struct slices; fall back in code
	if len(cfg.Layout.Merges) == 0 {
		cfg.Layout.Merges = DefaultMerges()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures the layout of the stock performance report template
func setDefaults(v *viper.Viper) {
	v.SetDefault("sheets.prefix", "Performance")

	// Each record block spans 15 rows: 13 content rows and 2 spacing rows.
	// The marker lives in column B of the block's first row.
	v.SetDefault("layout.marker_column", 2)
	v.SetDefault("layout.block_rows", 15)

	v.SetDefault("report.formats", []string{})
	v.SetDefault("report.dir", "")
	v.SetDefault("report.template", "")

	v.SetDefault("logging.file", "")
}

// DefaultMerges returns the merge directives of the stock template:
// four label pairs in columns B:C on the block's first four rows, and the
// header span B:E on the seventh row
func DefaultMerges() []MergeRange {
	return []MergeRange{
		{StartRow: 0, StartCol: 2, EndRow: 0, EndCol: 3},
		{StartRow: 1, StartCol: 2, EndRow: 1, EndCol: 3},
		{StartRow: 2, StartCol: 2, EndRow: 2, EndCol: 3},
		{StartRow: 3, StartCol: 2, EndRow: 3, EndCol: 3},
		{StartRow: 6, StartCol: 2, EndRow: 6, EndCol: 5},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Sheets.Prefix) == "" {
		return fmt.Errorf("sheets.prefix cannot be empty")
	}

	if c.Layout.MarkerColumn < 1 {
		return fmt.Errorf("layout.marker_column must be >= 1, got %d", c.Layout.MarkerColumn)
	}

	if c.Layout.BlockRows < 1 {
		return fmt.Errorf("layout.block_rows must be >= 1, got %d", c.Layout.BlockRows)
	}

	if len(c.Layout.Merges) == 0 {
		return fmt.Errorf("layout.merges must contain at least one directive")
	}

	for i, m := range c.Layout.Merges {
		if m.StartRow < 0 {
			return fmt.Errorf("layout.merges[%d]: start_row must be >= 0, got %d", i, m.StartRow)
		}
		if m.EndRow < m.StartRow {
			return fmt.Errorf("layout.merges[%d]: end_row %d precedes start_row %d", i, m.EndRow, m.StartRow)
		}
		if m.EndRow >= c.Layout.BlockRows {
			return fmt.Errorf("layout.merges[%d]: end_row %d reaches past the %d-row block", i, m.EndRow, c.Layout.BlockRows)
		}
		if m.StartCol < 1 {
			return fmt.Errorf("layout.merges[%d]: start_col must be >= 1, got %d", i, m.StartCol)
		}
		if m.EndCol < m.StartCol {
			return fmt.Errorf("layout.merges[%d]: end_col %d precedes start_col %d", i, m.EndCol, m.StartCol)
		}
	}

	for _, f := range c.Report.Formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "docx", "word", "json":
		default:
			return fmt.Errorf("report.formats: unknown format %q", f)
		}
	}

	return nil
}

// ReportDir returns the directory repair summaries are written to.
// When no directory is configured they land next to the workbook itself.
func (c *Config) ReportDir(workbookPath string) string {
	if c.Report.Dir != "" {
		return c.Report.Dir
	}
	return filepath.Dir(workbookPath)
}

// ReportPath returns the full path for a repair summary of the given format
func (c *Config) ReportPath(workbookPath, ext string) string {
	base := filepath.Base(workbookPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.ReportDir(workbookPath), stem+"_repairs."+ext)
}

// EnsureReportDir creates the summary directory if it doesn't exist
func (c *Config) EnsureReportDir(workbookPath string) error {
	if err := os.MkdirAll(c.ReportDir(workbookPath), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Merge Fix Configuration ===")
	fmt.Printf("Sheet Prefix:   %s\n", c.Sheets.Prefix)
	fmt.Printf("Marker Column:  %d\n", c.Layout.MarkerColumn)
	fmt.Printf("Block Rows:     %d\n", c.Layout.BlockRows)
	fmt.Printf("Merges/Block:   %d\n", len(c.Layout.Merges))
	fmt.Printf("Report Formats: %v\n", c.Report.Formats)
	fmt.Printf("Report Dir:     %s\n", c.Report.Dir)
	fmt.Printf("Log File:       %s\n", c.Logging.File)
	fmt.Println("===============================")
}
