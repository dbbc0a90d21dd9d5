package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainchat-labs/txengine/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.APIPort)
	assert.Equal(t, 8091, cfg.NotifyPort)
	assert.NotEmpty(t, cfg.DatabaseDSN)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_port: 8080
database_dsn: ":memory:"
rpc_overrides:
  1:
    - http://localhost:8545
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, ":memory:", cfg.DatabaseDSN)
	assert.Equal(t, []string{"http://localhost:8545"}, cfg.RPCOverrides[1])
}

func TestLoadDefaultSlippage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_slippage_bps: 100\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(100), cfg.DefaultSlippageBps)

	t.Setenv("TXENGINE_DEFAULT_SLIPPAGE_BPS", "75")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(75), cfg.DefaultSlippageBps)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_port: 8080\n"), 0644))

	t.Setenv("TXENGINE_API_PORT", "9090")
	t.Setenv("TXENGINE_DATABASE_DSN", ":memory:")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, ":memory:", cfg.DatabaseDSN)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8091, cfg.NotifyPort)
}

func TestLoadInvalidEnvPort(t *testing.T) {
	t.Setenv("TXENGINE_API_PORT", "not-a-port")
	_, err := config.Load("")
	assert.Error(t, err)
}
