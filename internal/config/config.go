// Package config resolves runtime configuration from viper.
package config

import (
	"fmt"

	"github.com/famledger-dev/famledger/internal/common"
	"github.com/spf13/viper"
)

// Config is the resolved client configuration.
type Config struct {
	// BaseURL is the ledger backend, e.g. http://localhost:8000.
	BaseURL string
	// Token is the bearer token for the backend. Optional for local setups.
	Token string
	// PageSize is the transaction list page size, fixed per session.
	PageSize int
}

// SetDefaults registers defaults on the global viper instance.
func SetDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("list.page_size", 25)
}

// FromViper reads the configuration the root command has already loaded.
func FromViper() (*Config, error) {
	cfg := &Config{
		BaseURL:  viper.GetString("api.base_url"),
		Token:    viper.GetString("api.token"),
		PageSize: viper.GetInt("list.page_size"),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("%w: list.page_size must be positive", common.ErrInvalidConfig)
	}
	return cfg, nil
}
