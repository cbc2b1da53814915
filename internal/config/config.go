package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen    string `yaml:"listen"`
	DBPath    string `yaml:"db_path"`
	LogPath   string `yaml:"log_path"`
	WatchDir  string `yaml:"watch_dir"`
	BatchSize int    `yaml:"batch_size"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./data/logs.db"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	return &cfg, nil
}
