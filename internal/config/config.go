// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/quellen-sec/scanforge/api/schemas"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// ReportConfig carries the defaults for report generation. CLI flags override
// every field per invocation.
type ReportConfig struct {
	// Organization and Preparer prefill the report metadata.
	Organization string `mapstructure:"organization" yaml:"organization"`
	Preparer     string `mapstructure:"preparer" yaml:"preparer"`
	// Template selects the default styling variant.
	Template string `mapstructure:"template" yaml:"template"`
	// OutputDir is where generated documents land when -o gives a bare name.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "scanforge")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Report --
	v.SetDefault("report.organization", "")
	v.SetDefault("report.preparer", "")
	v.SetDefault("report.template", string(schemas.TemplateSimple))
	v.SetDefault("report.output_dir", ".")
}

// Load applies defaults, unmarshals the viper state into a Config, and
// validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logger format %q (expected console or json)", c.Logger.Format)
	}
	if _, err := ParseTemplate(c.Report.Template); err != nil {
		return err
	}
	return nil
}

// ParseTemplate converts a template name into the schemas enum.
func ParseTemplate(name string) (schemas.Template, error) {
	switch schemas.Template(name) {
	case schemas.TemplateSimple, schemas.TemplateProfessional, schemas.TemplateExecutive:
		return schemas.Template(name), nil
	case "":
		return schemas.TemplateSimple, nil
	default:
		return "", fmt.Errorf("unknown report template %q (expected simple, professional, or executive)", name)
	}
}
