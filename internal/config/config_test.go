package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWithNoPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9090\"\ndefault_seed: 77\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, uint64(77), cfg.DefaultSeed)
	require.Equal(t, Defaults().DatabaseURL, cfg.DatabaseURL)
}
