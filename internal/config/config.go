// Package config manages application configuration.
package config

import "os"

// Config represents the application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	State    StateConfig    `yaml:"state"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// LoggingConfig contains logging options.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig contains the metrics endpoint options. An empty address
// disables the endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// StateConfig controls where the server keeps its restart state.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultsConfig contains defaults applied to newly created content.
type DefaultsConfig struct {
	FontName   string `yaml:"font_name,omitempty"`
	FontSize   int    `yaml:"font_size,omitempty"`
	TableStyle string `yaml:"table_style"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		State: StateConfig{
			Dir: os.TempDir(),
		},
		Defaults: DefaultsConfig{
			TableStyle: "TableGrid",
		},
	}
}
