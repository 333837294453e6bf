package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llmsec/mutation-engine/pkg/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("/nonexistent/mutate.yaml")
	assert.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestValidate_RejectsOutOfRangeStrength(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine.DefaultStrength = 9
	assert.Error(t, cfg.Validate())
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, config.DefaultConfig().Validate())
}
