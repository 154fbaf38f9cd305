package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"wcp-fetch/internal/logger"
)

// Defaults applied when the config file is absent or leaves fields empty.
const (
	DefaultCLI        = "wcpcli"
	DefaultAPIBaseURL = "https://api.us.developer.workday.com"

	defaultDownloadTimeout = 60 * time.Second
	defaultPollInterval    = time.Second
	defaultStateFile       = "state.json"
)

// fileConfig mirrors the YAML layout of the config file. Durations are
// plain numbers in the file (seconds and milliseconds) to keep hand-editing
// simple; they are converted on load.
type fileConfig struct {
	DownloadDir            string `yaml:"download_dir"`
	CLI                    string `yaml:"wcpcli"`
	APIBaseURL             string `yaml:"api_base_url"`
	DownloadTimeoutSeconds int    `yaml:"download_timeout_seconds"`
	PollIntervalMS         int    `yaml:"poll_interval_ms"`
	StateFile              string `yaml:"state_file"`
}

// Config holds the resolved runtime configuration for a fetch run.
//   - DownloadDir: the browser download directory the platform export lands in.
//   - CLI: the external wcpcli executable name or path.
//   - APIBaseURL: base URI of the platform API; passed through to wcpcli.
//   - DownloadTimeout/PollInterval: how long and how often to watch the
//     download directory for the exported ZIP.
//   - StateFile: path of the JSON sync-history file.
type Config struct {
	DownloadDir     string
	CLI             string
	APIBaseURL      string
	DownloadTimeout time.Duration
	PollInterval    time.Duration
	StateFile       string
}

// Load reads the YAML config file at path and resolves the final Config.
// A missing file is not an error: defaults apply. Values from the process
// environment (optionally seeded from a .env file in the working directory)
// take precedence over the file.
func Load(fs afero.Fs, path string) (Config, error) {
	// Seed the environment from .env when present. Missing .env is fine.
	if err := godotenv.Load(); err == nil {
		logger.Debug("[DEBUG] Loaded environment overrides from .env\n")
	}

	var fc fileConfig
	raw, err := afero.ReadFile(fs, path)
	switch {
	case os.IsNotExist(err):
		logger.Debug("[DEBUG] Config file %s not found, using defaults\n", path)
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg := Config{
		DownloadDir:     fc.DownloadDir,
		CLI:             fc.CLI,
		APIBaseURL:      fc.APIBaseURL,
		DownloadTimeout: time.Duration(fc.DownloadTimeoutSeconds) * time.Second,
		PollInterval:    time.Duration(fc.PollIntervalMS) * time.Millisecond,
		StateFile:       fc.StateFile,
	}

	// Environment wins over the file.
	if v := os.Getenv("WCP_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("WCP_CLI"); v != "" {
		cfg.CLI = v
	}
	if v := os.Getenv("WCP_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}

	// Fill remaining gaps with defaults.
	if cfg.CLI == "" {
		cfg.CLI = DefaultCLI
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = defaultDownloadTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.StateFile == "" {
		cfg.StateFile = defaultStateFile
	}
	if cfg.DownloadDir == "" {
		// Last resort: the OS default browser download location.
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("no download_dir configured and home directory unknown: %w", err)
		}
		cfg.DownloadDir = filepath.Join(home, "Downloads")
	}

	// The CLI ships as a .cmd shim on Windows.
	if runtime.GOOS == "windows" && cfg.CLI == DefaultCLI {
		cfg.CLI = DefaultCLI + ".cmd"
	}

	logger.Debug("[DEBUG] Config: cli=%s download_dir=%s timeout=%s\n", cfg.CLI, cfg.DownloadDir, cfg.DownloadTimeout)
	return cfg, nil
}
