// Package config loads the blackjack CLI configuration from an HCL file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete CLI configuration
type Config struct {
	Game    GameSettings    `hcl:"game,block"`
	Logging LoggingSettings `hcl:"logging,block"`
}

// GameSettings contains game-level configuration
type GameSettings struct {
	StartingChips int `hcl:"starting_chips,optional"`
}

// LoggingSettings controls the session log file
type LoggingSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Game: GameSettings{
			StartingChips: 10,
		},
		Logging: LoggingSettings{
			Level: "info",
			File:  "blackjack.log",
		},
	}
}

// Load reads configuration from an HCL file. A missing file is not an
// error; defaults are returned instead.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if cfg.Game.StartingChips == 0 {
		cfg.Game.StartingChips = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "blackjack.log"
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Game.StartingChips < 1 {
		return fmt.Errorf("starting chips must be at least 1, got %d", c.Game.StartingChips)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}
