package config

import (
	"testing"

	"github.com/famledger-dev/famledger/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	viper.Reset()
	SetDefaults()

	cfg, err := FromViper()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Empty(t, cfg.Token)
}

func TestFromViperValidation(t *testing.T) {
	viper.Reset()
	viper.Set("api.base_url", "")
	_, err := FromViper()
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	viper.Reset()
	SetDefaults()
	viper.Set("list.page_size", 0)
	_, err = FromViper()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
