// Package config loads the archivist YAML configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samwightt/archivist/pkg/assembly"
	"github.com/samwightt/archivist/pkg/logging"
	"github.com/samwightt/archivist/pkg/results"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "archivist.yaml"

// Config is the static configuration of the search form.
type Config struct {
	// URL is the GraphQL endpoint; the escaped query is appended to it.
	URL                  string                        `yaml:"url"`
	AppName              string                        `yaml:"app_name"`
	ExportFileNamePrefix string                        `yaml:"export_file_name_prefix"`
	RequiredFields       []assembly.RequiredGroup      `yaml:"required_fields"`
	OptionalFields       []assembly.Field              `yaml:"optional_fields"`
	IdentifierFields     map[string][]string           `yaml:"identifier_fields"`
	ColumnTypes          map[string]results.ColumnType `yaml:"column_types"`
	TimeoutSeconds       int                           `yaml:"timeout_seconds"`
	CacheSize            int                           `yaml:"cache_size"`
	Logging              logging.Config                `yaml:"logging"`
}

// Default returns a configuration with defaults applied and no fields.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML config bytes, expands env vars, applies defaults,
// and validates.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.ExpandEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = "Archives"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	if c.CacheSize == 0 {
		c.CacheSize = 8
	}
	def := logging.DefaultConfig()
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Format
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = def.MaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = def.MaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = def.MaxAgeDays
	}
	for i := range c.RequiredFields {
		if c.RequiredFields[i].Min == 0 {
			c.RequiredFields[i].Min = 1
		}
	}
}

var knownColumnTypes = []results.ColumnType{
	results.TypeNumber, results.TypeString, results.TypeBoolean,
	results.TypeDate, results.TypeDateTime, results.TypeSingleSelect,
}

func (c *Config) Validate() error {
	seen := map[string]string{}
	checkField := func(where string, f assembly.Field) error {
		if f.Name == "" {
			return fmt.Errorf("%s: name is required", where)
		}
		if prev, ok := seen[f.Name]; ok {
			return fmt.Errorf("%s: field %q already declared in %s", where, f.Name, prev)
		}
		seen[f.Name] = where
		return nil
	}

	for i, g := range c.RequiredFields {
		if len(g.Fields) == 0 {
			return fmt.Errorf("required_fields[%d]: at least one field is required", i)
		}
		if g.Min < 1 || g.Min > len(g.Fields) {
			return fmt.Errorf("required_fields[%d]: min must be between 1 and %d", i, len(g.Fields))
		}
		for j, f := range g.Fields {
			if err := checkField(fmt.Sprintf("required_fields[%d].fields[%d]", i, j), f); err != nil {
				return err
			}
		}
	}
	for i, f := range c.OptionalFields {
		if err := checkField(fmt.Sprintf("optional_fields[%d]", i), f); err != nil {
			return err
		}
	}
	for scalar, t := range c.ColumnTypes {
		if !isKnownColumnType(t) {
			return fmt.Errorf("column_types.%s: unknown column type %q", scalar, t)
		}
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be >= 0")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func isKnownColumnType(t results.ColumnType) bool {
	for _, k := range knownColumnTypes {
		if k == t {
			return true
		}
	}
	return false
}

// ExpandEnv expands ${VAR} references in the endpoint URL and log file path.
func (c *Config) ExpandEnv() error {
	var err error
	if c.URL, err = ExpandEnvStrict(c.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if c.Logging.FilePath, err = ExpandEnvStrict(c.Logging.FilePath); err != nil {
		return fmt.Errorf("logging.file_path: %w", err)
	}
	return nil
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// ExpandEnvStrict expands ${VAR} references and errors if any env var is missing.
func ExpandEnvStrict(input string) (string, error) {
	matches := envPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input, nil
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(input[last:m[0]])
		name := input[m[2]:m[3]]
		val, ok := os.LookupEnv(name)
		if !ok {
			return "", fmt.Errorf("missing env var %s", name)
		}
		b.WriteString(val)
		last = m[1]
	}
	b.WriteString(input[last:])
	return b.String(), nil
}

// IdentifierFieldsFor returns the fields composing row ids of operation.
func (c *Config) IdentifierFieldsFor(operation string) []string {
	return c.IdentifierFields[operation]
}
