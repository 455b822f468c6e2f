package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v2"

	"binlabels/confirm"
	"binlabels/label"
	"binlabels/mqtt"
	"binlabels/printer"
)

// DefaultConfigFile is read when --cfg is not given. It may be absent.
const DefaultConfigFile = "binlabels.yml"

// DefaultOutputDir is the handoff directory between generate and print.
const DefaultOutputDir = "labels"

// Config is the main configuration structure for binlabels.
type Config struct {
	// Directory the generator fills and the printer drains
	OutputDir string `yaml:"output_dir"`

	// Identifies this station in MQTT topics
	ClientID string `yaml:"client_id"`

	// Label geometry and font
	Label label.Config `yaml:"label"`

	// Printer backend
	Printer printer.Config `yaml:"printer"`

	// Operator confirmation between labels
	Confirm confirm.Config `yaml:"confirm"`

	// Optional status messages
	MQTT mqtt.Config `yaml:"mqtt"`
}

// LoadConfig reads the YAML file at path. When required is false a
// missing file yields the defaults.
func LoadConfig(path string, required bool) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		// an empty file decodes as EOF
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("open config: %w", err)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	cfg.Label = cfg.Label.WithDefaults()
	return &cfg, nil
}
