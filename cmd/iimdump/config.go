package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the iimdump configuration file
// (~/.config/iimdump/config.yaml). Window and Quiet are pointers so an
// explicit zero value can be told apart from "not set".
type Config struct {
	Format     string            `yaml:"format"`
	Window     *int64            `yaml:"window"`
	XMLRoot    string            `yaml:"xml_root"`
	SQLTable   string            `yaml:"sql_table"`
	SQLColumns map[string]string `yaml:"sql_columns"`
	Quiet      *bool             `yaml:"quiet"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "iimdump", "config.yaml")
}

// loadConfig reads the config file at path, or at the default location when
// path is empty. Returns a zero Config if the file doesn't exist or cannot
// be parsed.
func loadConfig(path string) Config {
	if path == "" {
		path = configPath()
	}
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyConfig applies config file defaults to the flags the user did not set
// on the command line.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.Format != "" && !c.IsSet("format") {
		format = cfg.Format
	}
	if cfg.Window != nil && !c.IsSet("window") {
		scanWindow = *cfg.Window
	}
	if cfg.XMLRoot != "" && !c.IsSet("root") {
		xmlRoot = cfg.XMLRoot
	}
	if cfg.SQLTable != "" && !c.IsSet("table") {
		sqlTable = cfg.SQLTable
	}
	if cfg.Quiet != nil && !c.IsSet("quiet") {
		quiet = *cfg.Quiet
	}
}
