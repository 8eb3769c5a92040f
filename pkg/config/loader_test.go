package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `env:"CONFIG_TEST_NAME" envDefault:"fallback"`
	Delay   time.Duration `env:"CONFIG_TEST_DELAY" envDefault:"3s"`
	Retries int           `env:"CONFIG_TEST_RETRIES" envDefault:"5"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "fallback", cfg.Name)
		assert.Equal(t, 3*time.Second, cfg.Delay)
		assert.Equal(t, 5, cfg.Retries)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_NAME", "from-env")
		t.Setenv("CONFIG_TEST_DELAY", "250ms")

		var cfg testConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "from-env", cfg.Name)
		assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *testConfig
		assert.ErrorIs(t, Load(cfg), ErrNilPointer)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_RETRIES", "not-a-number")

		var cfg testConfig
		assert.ErrorIs(t, Load(&cfg), ErrParsingConfig)
	})
}
