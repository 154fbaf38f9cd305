package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"wcp-fetch/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func TestLoadDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := Load(fs, "config.yaml")
	require.NoError(t, err)

	require.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	require.Equal(t, 60*time.Second, cfg.DownloadTimeout)
	require.Equal(t, time.Second, cfg.PollInterval)
	require.Equal(t, "state.json", cfg.StateFile)
	require.NotEmpty(t, cfg.DownloadDir)
	require.Contains(t, cfg.CLI, DefaultCLI)
}

func TestLoadFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.yaml", []byte(`
download_dir: /data/downloads
wcpcli: /opt/wcp/bin/wcpcli
api_base_url: https://api.eu.example.com
download_timeout_seconds: 120
poll_interval_ms: 250
state_file: /data/state.json
`), 0644))

	cfg, err := Load(fs, "config.yaml")
	require.NoError(t, err)

	require.Equal(t, "/data/downloads", cfg.DownloadDir)
	require.Equal(t, "/opt/wcp/bin/wcpcli", cfg.CLI)
	require.Equal(t, "https://api.eu.example.com", cfg.APIBaseURL)
	require.Equal(t, 2*time.Minute, cfg.DownloadTimeout)
	require.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	require.Equal(t, "/data/state.json", cfg.StateFile)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.yaml", []byte(`
download_dir: /from/file
wcpcli: file-cli
`), 0644))

	t.Setenv("WCP_DOWNLOAD_DIR", "/from/env")
	t.Setenv("WCP_CLI", "env-cli")
	t.Setenv("WCP_API_BASE_URL", "https://env.example.com")

	cfg, err := Load(fs, "config.yaml")
	require.NoError(t, err)

	require.Equal(t, "/from/env", cfg.DownloadDir)
	require.Equal(t, "env-cli", cfg.CLI)
	require.Equal(t, "https://env.example.com", cfg.APIBaseURL)
}

func TestLoadMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.yaml", []byte("download_dir: [unclosed"), 0644))

	_, err := Load(fs, "config.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config")
}
