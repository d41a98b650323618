package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the workspace root
const FileName = "heron.yml"

// EnvPrefix prefixes environment overrides, e.g. HERON_GRADLE_JAVA_HOME
const EnvPrefix = "HERON"

// Config represents heron.yml configuration
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace" mapstructure:"workspace"`
	Gradle    GradleConfig    `yaml:"gradle" mapstructure:"gradle"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WorkspaceConfig controls module discovery
type WorkspaceConfig struct {
	Root   string   `yaml:"root" mapstructure:"root"`
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // Extra directory names to skip
}

// GradleConfig controls how the build tool is invoked
type GradleConfig struct {
	UseWrapper bool     `yaml:"use_wrapper" mapstructure:"use_wrapper"`
	JavaHome   string   `yaml:"java_home" mapstructure:"java_home"`
	Opts       []string `yaml:"opts" mapstructure:"opts"` // Joined into GRADLE_OPTS
	Args       []string `yaml:"args" mapstructure:"args"` // Appended to every invocation
}

// AnalysisConfig controls the parse pipeline
type AnalysisConfig struct {
	Workers   int  `yaml:"workers" mapstructure:"workers"`
	Strict    bool `yaml:"strict" mapstructure:"strict"`
	CacheSize int  `yaml:"cache_size" mapstructure:"cache_size"`
}

// OutputConfig defines output settings
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig defines logging settings
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Output formats accepted by the graph commands
var Formats = []string{"text", "json", "yaml", "dot"}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Root:   ".",
			Ignore: []string{},
		},
		Gradle: GradleConfig{
			UseWrapper: true,
			Opts:       []string{},
			Args:       []string{},
		},
		Analysis: AnalysisConfig{
			Workers:   0, // 0 = one per CPU
			Strict:    false,
			CacheSize: 512,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads heron.yml from dir. A missing file yields the defaults.
// Environment variables prefixed with HERON_ override file values.
func Load(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	}

	return decode(v)
}

// LoadFile reads configuration from an explicit path, which must exist
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())
	return v
}

// setDefaults registers every key so AutomaticEnv can see it on Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("workspace.root", cfg.Workspace.Root)
	v.SetDefault("workspace.ignore", cfg.Workspace.Ignore)
	v.SetDefault("gradle.use_wrapper", cfg.Gradle.UseWrapper)
	v.SetDefault("gradle.java_home", cfg.Gradle.JavaHome)
	v.SetDefault("gradle.opts", cfg.Gradle.Opts)
	v.SetDefault("gradle.args", cfg.Gradle.Args)
	v.SetDefault("analysis.workers", cfg.Analysis.Workers)
	v.SetDefault("analysis.strict", cfg.Analysis.Strict)
	v.SetDefault("analysis.cache_size", cfg.Analysis.CacheSize)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("log.level", cfg.Log.Level)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must be >= 0, got %d", c.Analysis.Workers)
	}
	if c.Analysis.CacheSize < 0 {
		return fmt.Errorf("analysis.cache_size must be >= 0, got %d", c.Analysis.CacheSize)
	}
	if !ValidFormat(c.Output.Format) {
		return fmt.Errorf("invalid output.format: %s (valid: %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidFormat reports whether f is one of Formats
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Save writes configuration to a YAML file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Exists reports whether dir contains heron.yml
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}
