package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password,omitempty"`
	Database           string `yaml:"database"`
	ManagementDatabase string `yaml:"management_database,omitempty"`
	SSLMode            string `yaml:"sslmode"`
}

type InputsConfig struct {
	// Dir is resolved relative to the config file's directory.
	Dir string `yaml:"dir"`

	// Files overrides spreadsheet names, keyed by destination table.
	Files map[string]string `yaml:"files,omitempty"`
}

type FileConfig struct {
	Connection   ConnectionConfig `yaml:"connection"`
	Inputs       InputsConfig     `yaml:"inputs"`
	PlotOutput   string           `yaml:"plot_output"`
	StrictSchema bool             `yaml:"strict_schema"`
	Timeout      string           `yaml:"timeout"`
}

const ConfigFileName = "vaxpipe.yaml"

// Load reads vaxpipe.yaml from dir.
func Load(dir string) (*FileConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file from an explicit path. A relative inputs.dir
// is rewritten relative to the file's directory.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Inputs.Dir != "" && !filepath.IsAbs(cfg.Inputs.Dir) {
		cfg.Inputs.Dir = filepath.Join(filepath.Dir(path), cfg.Inputs.Dir)
	}
	return &cfg, nil
}

// TimeoutDuration parses the timeout field. An empty value returns 0.
func (c *FileConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}
