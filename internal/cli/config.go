package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-jsonld/rdf"
)

// Config is the rdf2jsonld configuration file.
//
//	serializer:
//	  useNativeTypes: true
//	  space: "  "
//	  context:
//	    "@vocab": http://schema.org/
//	contextFile: ./context.jsonld
//	database: ./quads.db
//	logLevel: info
type Config struct {
	// Serializer holds the JSON-LD serializer options. An inline context is
	// kept in document order.
	Serializer rdf.JSONLDSerializerOptions `yaml:"serializer"`
	// ContextFile is a path or http(s) URL of a context document. It replaces
	// an inline serializer context.
	ContextFile string `yaml:"contextFile"`
	// Database is the default quad store path for load and export.
	Database string `yaml:"database"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{LogLevel: "info"}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logLevel %q must be one of debug, info, warn, error", c.LogLevel)
	}
	if strings.Trim(c.Serializer.Space, " \t") != "" {
		return fmt.Errorf("serializer.space must contain only spaces and tabs")
	}
	return nil
}

// LoadConfig loads configuration from a YAML file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	config := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}
