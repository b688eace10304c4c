// Package config loads config.toml, the declarative document describing
// which accounts to import, how to bucket their transactions into user
// transaction types, and how those types map onto categories.
//
// Unknown keys cause a parse error rather than being silently ignored:
// the mapstructure decode runs with ErrorUnused so a typo'd key fails
// loudly instead of passing review quietly.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ledger-tools/ledgerimport/internal/model"
)

// Load reads and strictly decodes path (a TOML file) into a
// model.CategoryConfig. Unknown top-level or per-entry keys are rejected.
func Load(path string) (model.CategoryConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return model.CategoryConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg model.CategoryConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	}); err != nil {
		return model.CategoryConfig{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
