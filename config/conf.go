package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/rs/zerolog/log"
)

const (
	DefaultExcludedGroup    = "Internal Master Category"
	DefaultLookbackDuration = "720h"
)

type uiConfig struct {
	ExcludedGroup    string `yaml:"excluded_group"`
	LookbackDuration string `yaml:"lookback_duration"`
}

type openAI struct {
	Model string `yaml:"model"`
}

type MasterConfig struct {
	Shortcuts map[string]string `yaml:"shortcuts"`
	UI        uiConfig          `yaml:"ui"`
	OpenAI    openAI            `yaml:"openai"`
}

func defaults() MasterConfig {
	return MasterConfig{
		UI: uiConfig{
			ExcludedGroup:    DefaultExcludedGroup,
			LookbackDuration: DefaultLookbackDuration,
		},
	}
}

// InitConfig reads the YAML file at path on top of the defaults. A missing
// file is not an error.
func InitConfig(path string) (*MasterConfig, error) {
	init := defaults()
	if err := init.getConf(path); err != nil {
		return nil, err
	}
	if _, err := init.Lookback(); err != nil {
		return nil, err
	}
	return &init, nil
}

func (c *MasterConfig) getConf(file string) error {
	yamlFile, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", file).Msg("No config file, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(yamlFile, c); err != nil {
		return fmt.Errorf("parse config %s: %w", file, err)
	}
	return nil
}

// Lookback is how far back the transaction list reaches.
func (c *MasterConfig) Lookback() (time.Duration, error) {
	if c.UI.LookbackDuration == "" {
		c.UI.LookbackDuration = DefaultLookbackDuration
	}
	d, err := time.ParseDuration(c.UI.LookbackDuration)
	if err != nil {
		return 0, fmt.Errorf("ui.lookback_duration: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("ui.lookback_duration must be positive, got %s", d)
	}
	return d, nil
}

func (c *MasterConfig) ExcludedGroup() string {
	if c.UI.ExcludedGroup == "" {
		return DefaultExcludedGroup
	}
	return c.UI.ExcludedGroup
}
