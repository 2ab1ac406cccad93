package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sheet-verify/internal/check"
	"sheet-verify/internal/normalize"
	"sheet-verify/internal/pipeline"
	"sheet-verify/internal/reference"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SHEETVERIFY_INPUT_FILE
const EnvPrefix = "SHEETVERIFY"

// Config represents the application configuration
type Config struct {
	Input       InputConfig       `mapstructure:"input"`
	Reference   ReferenceConfig   `mapstructure:"reference"`
	Columns     ColumnsConfig     `mapstructure:"columns"`
	Checks      ChecksConfig      `mapstructure:"checks"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Output      OutputConfig      `mapstructure:"output"`
	Web         WebConfig         `mapstructure:"web"`
}

// InputConfig holds data workbook settings
type InputConfig struct {
	File      string   `mapstructure:"file"`       // Data workbook (.xlsx or .csv)
	DataSheet string   `mapstructure:"data_sheet"` // Sheet holding the rows to verify
	Encoding  []string `mapstructure:"encoding"`   // CSV encoding hints, tried in order
}

// ReferenceConfig holds reference sheet settings
type ReferenceConfig struct {
	Strategy           string `mapstructure:"strategy"`             // "positional" or "generic"
	File               string `mapstructure:"file"`                 // Optional separate reference workbook
	Sheet              string `mapstructure:"sheet"`                // Reference sheet name
	PositionalRows     int    `mapstructure:"positional_rows"`      // Leading block size (positional)
	Sentinel           string `mapstructure:"sentinel"`             // Top-level Variable name (generic)
	VariableColumn     string `mapstructure:"variable_column"`      // generic
	ValueColumn        string `mapstructure:"value_column"`         // generic
	ServicePointSheet  string `mapstructure:"service_point_sheet"`  // Empty means Sheet
	ServicePointColumn string `mapstructure:"service_point_column"` // Code column on the reference side
}

// ColumnsConfig names the data sheet columns under test
type ColumnsConfig struct {
	TopLevel     string `mapstructure:"top_level"`
	Child        string `mapstructure:"child"`
	ServicePoint string `mapstructure:"service_point"`
}

// ChecksConfig selects checks and normalization policies.
// An empty policy means the strategy default.
type ChecksConfig struct {
	HierarchyPolicy string      `mapstructure:"hierarchy_policy"`
	CodePolicy      string      `mapstructure:"code_policy"`
	TopLevel        CheckToggle `mapstructure:"top_level"`
	Child           CheckToggle `mapstructure:"child"`
	ServicePoint    CheckToggle `mapstructure:"service_point"`
}

// CheckToggle enables and labels one check
type CheckToggle struct {
	Enabled bool   `mapstructure:"enabled"`
	Name    string `mapstructure:"name"` // Report label; also the report sheet name
}

// DiagnosticsConfig controls the operator summary
type DiagnosticsConfig struct {
	SampleSize   int    `mapstructure:"sample_size"`
	SampleParent string `mapstructure:"sample_parent"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Output file name (without extension)
	Formats  []string `mapstructure:"formats"`   // excel, html, word, json
}

// WebConfig holds HTTP upload settings
type WebConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// Environment variables (SHEETVERIFY_*) override file values
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Input:     ./input.xlsx (sheet Screening)")
			fmt.Println("  Reference: sheet Dropdown (generic)")
			fmt.Println("  Output:    ./output")
			fmt.Println("==========================================")
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

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.file", "./input.xlsx")
	v.SetDefault("input.data_sheet", pipeline.DefaultDataSheet)
	v.SetDefault("input.encoding", []string{"utf-8", "windows-1252"})

	v.SetDefault("reference.strategy", string(reference.StrategyGeneric))
	v.SetDefault("reference.file", "")
	v.SetDefault("reference.sheet", pipeline.DefaultReferenceSheet)
	v.SetDefault("reference.positional_rows", reference.DefaultPositionalRows)
	v.SetDefault("reference.sentinel", reference.DefaultSentinel)
	v.SetDefault("reference.variable_column", reference.DefaultVariableColumn)
	v.SetDefault("reference.value_column", reference.DefaultValueColumn)
	v.SetDefault("reference.service_point_sheet", "")
	v.SetDefault("reference.service_point_column", reference.DefaultCodeColumn)

	v.SetDefault("columns.top_level", pipeline.ColumnTopLevel)
	v.SetDefault("columns.child", pipeline.ColumnChild)
	v.SetDefault("columns.service_point", pipeline.ColumnServicePoint)

	v.SetDefault("checks.hierarchy_policy", "")
	v.SetDefault("checks.code_policy", "")
	v.SetDefault("checks.top_level.enabled", true)
	v.SetDefault("checks.top_level.name", "Invalid "+pipeline.ColumnTopLevel)
	v.SetDefault("checks.child.enabled", true)
	v.SetDefault("checks.child.name", "Invalid "+pipeline.ColumnChild)
	v.SetDefault("checks.service_point.enabled", true)
	v.SetDefault("checks.service_point.name", "Invalid "+pipeline.ColumnServicePoint)

	v.SetDefault("diagnostics.sample_size", pipeline.DefaultSampleSize)
	v.SetDefault("diagnostics.sample_parent", pipeline.DefaultSampleParent)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "verification-report")
	v.SetDefault("output.formats", []string{"excel", "json"})

	v.SetDefault("web.addr", ":8080")
	v.SetDefault("web.max_upload_mb", 32)
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	for _, p := range []*string{&c.Input.File, &c.Reference.File, &c.Output.Dir} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the full path for a report with the given extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+"."+strings.TrimPrefix(ext, "."))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := reference.ParseStrategy(c.Reference.Strategy); err != nil {
		return fmt.Errorf("reference.strategy: %w", err)
	}
	if _, err := c.hierarchyPolicy(); err != nil {
		return fmt.Errorf("checks.hierarchy_policy: %w", err)
	}
	if _, err := c.codePolicy(); err != nil {
		return fmt.Errorf("checks.code_policy: %w", err)
	}

	if c.Input.DataSheet == "" {
		return fmt.Errorf("input.data_sheet cannot be empty")
	}
	if c.Reference.Sheet == "" {
		return fmt.Errorf("reference.sheet cannot be empty")
	}
	if c.Reference.PositionalRows <= 0 {
		return fmt.Errorf("reference.positional_rows must be positive")
	}
	if c.Diagnostics.SampleSize <= 0 {
		return fmt.Errorf("diagnostics.sample_size must be positive")
	}
	if !c.Checks.TopLevel.Enabled && !c.Checks.Child.Enabled && !c.Checks.ServicePoint.Enabled {
		return fmt.Errorf("at least one check must be enabled")
	}
	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	return nil
}

func (c *Config) hierarchyPolicy() (normalize.Policy, error) {
	if c.Checks.HierarchyPolicy == "" {
		strategy, err := reference.ParseStrategy(c.Reference.Strategy)
		if err != nil {
			return normalize.PolicyStrict, err
		}
		return strategy.DefaultHierarchyPolicy(), nil
	}
	return normalize.ParsePolicy(c.Checks.HierarchyPolicy)
}

func (c *Config) codePolicy() (normalize.Policy, error) {
	if c.Checks.CodePolicy == "" {
		return normalize.PolicyDisplay, nil
	}
	return normalize.ParsePolicy(c.Checks.CodePolicy)
}

// Plan converts the configuration into a pipeline plan
func (c *Config) Plan() (pipeline.Plan, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Plan{}, err
	}

	strategy, _ := reference.ParseStrategy(c.Reference.Strategy)
	hierarchy, _ := c.hierarchyPolicy()
	codes, _ := c.codePolicy()

	plan := pipeline.Plan{
		DataSheet:              c.Input.DataSheet,
		Strategy:               strategy,
		ReferenceSheet:         c.Reference.Sheet,
		PositionalRows:         c.Reference.PositionalRows,
		Sentinel:               c.Reference.Sentinel,
		VariableColumn:         c.Reference.VariableColumn,
		ValueColumn:            c.Reference.ValueColumn,
		ServicePointSheet:      c.Reference.ServicePointSheet,
		ServicePointCodeColumn: c.Reference.ServicePointColumn,
		HierarchyPolicy:        hierarchy,
		CodePolicy:             codes,
		SampleSize:             c.Diagnostics.SampleSize,
		SampleParent:           c.Diagnostics.SampleParent,
	}

	if t := c.Checks.TopLevel; t.Enabled {
		plan.Checks = append(plan.Checks, check.Check{
			Name:   labelOr(t.Name, c.Columns.TopLevel),
			Kind:   check.KindTopLevel,
			Column: c.Columns.TopLevel,
		})
	}
	if t := c.Checks.Child; t.Enabled {
		plan.Checks = append(plan.Checks, check.Check{
			Name:         labelOr(t.Name, c.Columns.Child),
			Kind:         check.KindChild,
			Column:       c.Columns.Child,
			ParentColumn: c.Columns.TopLevel,
		})
	}
	if t := c.Checks.ServicePoint; t.Enabled {
		plan.Checks = append(plan.Checks, check.Check{
			Name:   labelOr(t.Name, c.Columns.ServicePoint),
			Kind:   check.KindFlatCode,
			Column: c.Columns.ServicePoint,
		})
	}

	return plan, nil
}

func labelOr(name, column string) string {
	if name != "" {
		return name
	}
	return "Invalid " + column
}

// Print displays the current configuration
func (c *Config) Print() {
	hierarchy, _ := c.hierarchyPolicy()
	codes, _ := c.codePolicy()

	fmt.Println("=== Sheet Verify Configuration ===")
	fmt.Printf("Input File:        %s\n", c.Input.File)
	fmt.Printf("Data Sheet:        %s\n", c.Input.DataSheet)
	fmt.Printf("Encoding Hints:    %v\n", c.Input.Encoding)
	fmt.Printf("Strategy:          %s\n", c.Reference.Strategy)
	fmt.Printf("Reference Sheet:   %s\n", c.Reference.Sheet)
	if c.Reference.File != "" {
		fmt.Printf("Reference File:    %s\n", c.Reference.File)
	}
	fmt.Printf("Hierarchy Policy:  %s\n", hierarchy)
	fmt.Printf("Code Policy:       %s\n", codes)
	fmt.Printf("Columns:           %s / %s / %s\n", c.Columns.TopLevel, c.Columns.Child, c.Columns.ServicePoint)
	fmt.Printf("Output Directory:  %s\n", c.Output.Dir)
	fmt.Printf("Output Formats:    %v\n", c.Output.Formats)
	fmt.Println("==================================")
}
