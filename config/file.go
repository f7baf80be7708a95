package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML file passed with --config.
type FileConfig struct {
	OutputDir string       `yaml:"output_dir"`
	Sizes     []int        `yaml:"sizes"`
	Optimize  bool         `yaml:"optimize"`
	Upload    UploadConfig `yaml:"upload"`
	Notify    NotifyConfig `yaml:"notify"`
}

type UploadConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
}

type NotifyConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
}

// LoadFile reads and parses the configuration file
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &file, nil
}

func (f *FileConfig) apply(cfg *Config) {
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if len(f.Sizes) > 0 {
		sizes := []int{}
		for _, n := range f.Sizes {
			if n > 0 {
				sizes = append(sizes, n)
			}
		}
		cfg.Sizes = sizes
	}
	cfg.Optimize = f.Optimize

	cfg.Upload = f.Upload.Enabled
	cfg.AwsBucket = f.Upload.Bucket
	cfg.S3KeyPrefix = f.Upload.Prefix

	cfg.Notify = f.Notify.Enabled
	cfg.RabbitMqURL = f.Notify.URL
	if f.Notify.Exchange != "" {
		cfg.Exchange = f.Notify.Exchange
	}
	if f.Notify.RoutingKey != "" {
		cfg.RoutingKey = f.Notify.RoutingKey
	}
}
