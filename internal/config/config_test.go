package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payout-calc/core/types"
	"payout-calc/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.DefaultRateConfig(), cfg.Rates)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadJSONOverDefaults(t *testing.T) {
	path := writeFile(t, "payout.json", `{"rates": {"flat_rate": 0.3}, "server": {"addr": ":9090"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Rates.FlatRate)
	assert.Equal(t, 0.001, cfg.Rates.TDSRate, "unset fields keep defaults")
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadJSONRejectsGarbage(t *testing.T) {
	_, err := Load(writeFile(t, "payout.json", `{"rates": `))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadHCL(t *testing.T) {
	path := writeFile(t, "payout.hcl", `
version = "2"

rates {
  flat_rate = 0.35
  tcs_rate  = 0.05
}

server {
  addr       = "127.0.0.1:8081"
  rate_limit = 0
}

logging {
  level = "debug"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2", cfg.Version)
	assert.Equal(t, 0.35, cfg.Rates.FlatRate)
	assert.Equal(t, 0.001, cfg.Rates.TDSRate)
	assert.Equal(t, 0.05, cfg.Rates.TCSRate)
	assert.Equal(t, "127.0.0.1:8081", cfg.Server.Addr)
	assert.Equal(t, 0, cfg.Server.RateLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadHCLErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":          `rates {`,
		"unknown block":   `pricing { flat_rate = 1 }`,
		"unknown attr":    `rates { platform_fee = 0.4 }`,
		"wrong type":      `rates { flat_rate = "high" }`,
		"fractional int":  `server { rate_limit = 1.5 }`,
		"variable in use": `rates { flat_rate = var.fee }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "payout.hcl", src))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig), err.Error())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PAYOUT_FLAT_RATE", "0.25")
	t.Setenv("PAYOUT_SERVER_ADDR", ":7070")
	t.Setenv("PAYOUT_LOG_LEVEL", "error")
	t.Setenv("PAYOUT_OUTPUT_PREVIEW_ROWS", "3")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 0.25, cfg.Rates.FlatRate)
	assert.Equal(t, 0.10, cfg.Rates.TCSRate, "unset variables keep current values")
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Output.PreviewRows)
}

func TestApplyEnvRejectsBadNumber(t *testing.T) {
	t.Setenv("PAYOUT_TDS_RATE", "one percent")

	err := Default().ApplyEnv()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"rate above one":   func(c *Config) { c.Rates.FlatRate = 1.2 },
		"negative rate":    func(c *Config) { c.Rates.TCSRate = -0.1 },
		"missing addr":     func(c *Config) { c.Server.Addr = "" },
		"bad log level":    func(c *Config) { c.Logging.Level = "loud" },
		"bad format":       func(c *Config) { c.Output.DefaultFormat = "pdf" },
		"zero upload size": func(c *Config) { c.Server.MaxUploadMB = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"nested/payout.json", "nested/payout.hcl"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Rates.FlatRate = 0.38
			cfg.Server.RateLimit = 30
			cfg.Output.NoColor = true
			require.NoError(t, cfg.Save(path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}
