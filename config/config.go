package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EngineCorpus  = "corpus"
	EngineCommand = "command"
)

// Config holds all segrole configuration.
type Config struct {
	// Annotation engine
	Engine EngineConfig `yaml:"engine"`

	// SQLite store of docs and processed runs
	Store StoreConfig `yaml:"store"`

	Batch BatchConfig `yaml:"batch"`

	Logging LoggingConfig `yaml:"logging"`

	Render RenderConfig `yaml:"render"`
}

// EngineConfig selects the annotation engine.
type EngineConfig struct {
	// Kind is corpus (pre-annotated docs) or command (annotator process)
	Kind string `yaml:"kind"`

	// Command is the annotator argv, for the command kind
	Command []string `yaml:"command"`

	// DocPath is the directory of JSON docs or the SQLite file, for the
	// corpus kind
	DocPath string `yaml:"doc_path"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json, console
}

type RenderConfig struct {
	Format string `yaml:"format"`
	Color  bool   `yaml:"color"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Engine:  EngineConfig{Kind: EngineCorpus},
		Batch:   BatchConfig{Workers: 4},
		Logging: LoggingConfig{Level: "warn", Encoding: "console"},
		Render:  RenderConfig{Format: "all"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides the configuration with SEGROLE_* variables found by
// lookup (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SEGROLE_ENGINE"); ok {
		c.Engine.Kind = v
	}

	if v, ok := lookup("SEGROLE_ENGINE_COMMAND"); ok {
		c.Engine.Command = strings.Fields(v)
	}

	if v, ok := lookup("SEGROLE_DOC_PATH"); ok {
		c.Engine.DocPath = v
	}

	if v, ok := lookup("SEGROLE_DB"); ok {
		c.Store.Path = v
	}

	if v, ok := lookup("SEGROLE_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEGROLE_WORKERS: %w", err)
		}
		c.Batch.Workers = n
	}

	if v, ok := lookup("SEGROLE_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}

	return nil
}

// Validate checks the values that can not be fixed by a default.
func (c Config) Validate() error {
	switch c.Engine.Kind {
	case EngineCorpus:
	case EngineCommand:
		if len(c.Engine.Command) == 0 {
			return errors.New("engine.command must be set for the command engine")
		}
	default:
		return fmt.Errorf("unknown engine kind %q (allowed: %s, %s)", c.Engine.Kind, EngineCorpus, EngineCommand)
	}

	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}

	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging.encoding %q", c.Logging.Encoding)
	}

	return nil
}
