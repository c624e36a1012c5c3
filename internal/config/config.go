package config

import (
	"os"

	"github.com/zeebo/errs"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/yaml"

	"github.com/calebcase/ocf/container"
)

// Error is the class of configuration errors.
var Error = errs.Class("config")

// Config holds the settings of the ocfstrip command.
type Config struct {
	// Strip names fields to remove.
	Strip []string `json:"strip,omitempty"`

	// Keep names the only fields to retain. It cannot be combined with
	// Strip.
	Keep []string `json:"keep,omitempty"`

	ChunkSize       int     `json:"chunk_size"`
	VerifyChecksums bool    `json:"verify_checksums"`
	Log             Logging `json:"log"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `json:"level"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize: container.DefaultChunkSize,
		Log: Logging{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return Parse(data)
}

// Parse reads a YAML configuration on top of the defaults.
func Parse(data []byte) (*Config, error) {
	c := DefaultConfig()

	err := yaml.UnmarshalStrict(data, c)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the configuration for conflicting or invalid settings.
func (c *Config) Validate() error {
	if len(c.Strip) > 0 && len(c.Keep) > 0 {
		return Error.New("strip and keep cannot both be set")
	}

	if c.ChunkSize <= 0 {
		return Error.New("chunk_size must be positive, not %d", c.ChunkSize)
	}

	_, err := c.Level()

	return err
}

// Level returns the parsed log level.
func (c *Config) Level() (zapcore.Level, error) {
	var l zapcore.Level

	err := l.UnmarshalText([]byte(c.Log.Level))
	if err != nil {
		return l, Error.Wrap(err)
	}

	return l, nil
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return data, nil
}
