package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Auth struct {
		// When true, requests must carry a bearer token matching the one in
		// the OS keychain. Off by default for the local single-user setup.
		RequireToken bool   `yaml:"require_token" json:"require_token"`
		DefaultOwner string `yaml:"default_owner" json:"default_owner"`
	} `yaml:"auth" json:"auth"`

	Reminders struct {
		SweepSeconds int `yaml:"sweep_seconds" json:"sweep_seconds"`
	} `yaml:"reminders" json:"reminders"`

	LinkPreview struct {
		Enabled        bool    `yaml:"enabled" json:"enabled"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		ReqPerSec      float64 `yaml:"req_per_sec" json:"req_per_sec"`
		Burst          int     `yaml:"burst" json:"burst"`
	} `yaml:"link_preview" json:"link_preview"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
