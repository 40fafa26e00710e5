package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mchmarny/hajjdash/pkg/net"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name in the app home directory.
	FileName = "config.yaml"

	dirMode  = 0700
	fileMode = 0600

	PortDefault         = 8080
	SampleSizeDefault   = 200
	ProbeTimeoutDefault = 5 * time.Second
	SlowDefault         = 100 * time.Millisecond

	LogFormatText = "text"
	LogFormatJSON = "json"
)

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Config represents app config object.
type Config struct {
	Server  Server  `yaml:"server"`
	Sample  Sample  `yaml:"sample"`
	Scoring Scoring `yaml:"scoring"`
	Log     Log     `yaml:"log"`
	Status  Status  `yaml:"status"`
}

type Server struct {
	Port      int  `yaml:"port"`
	NoBrowser bool `yaml:"no_browser"`
}

type Sample struct {
	Size int `yaml:"size"`
	// Seed zero draws a new random seed for every batch.
	Seed uint64 `yaml:"seed"`
}

type Scoring struct {
	// Concurrency of batch scoring, zero uses GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Status configures the live upstream checks of the status page. Without
// endpoints the page shows the stored health table.
type Status struct {
	ProbeTimeout  time.Duration  `yaml:"probe_timeout"`
	SlowThreshold time.Duration  `yaml:"slow_threshold"`
	Endpoints     []net.Endpoint `yaml:"endpoints"`
}

// Default returns the config written on first run.
func Default() *Config {
	return &Config{
		Server: Server{
			Port: PortDefault,
		},
		Sample: Sample{
			Size: SampleSizeDefault,
		},
		Log: Log{
			Level:  "info",
			Format: LogFormatText,
		},
		Status: Status{
			ProbeTimeout:  ProbeTimeoutDefault,
			SlowThreshold: SlowDefault,
			Endpoints:     make([]net.Endpoint, 0),
		},
	}
}

// applyDefaults fills in values a hand-edited file left out.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Sample.Size == 0 {
		c.Sample.Size = d.Sample.Size
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Status.ProbeTimeout == 0 {
		c.Status.ProbeTimeout = d.Status.ProbeTimeout
	}
	if c.Status.SlowThreshold == 0 {
		c.Status.SlowThreshold = d.Status.SlowThreshold
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Sample.Size < 1 {
		return fmt.Errorf("invalid sample size: %d", c.Sample.Size)
	}
	if c.Scoring.Concurrency < 0 {
		return fmt.Errorf("invalid scoring concurrency: %d", c.Scoring.Concurrency)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if c.Log.Format != LogFormatText && c.Log.Format != LogFormatJSON {
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	for i, ep := range c.Status.Endpoints {
		if ep.Name == "" || ep.URL == "" {
			return fmt.Errorf("status endpoint %d requires name and url", i)
		}
	}
	return nil
}

// Save writes c into dirPath.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, FileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create dir %s: %w", dirPath, err)
	}

	path := filepath.Join(dirPath, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return Read(path)
}

// Read loads the config file at path.
func Read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &c, nil
}

// GetOrCreateHomeDir returns the home directory for the current user.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
