package cmd

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"wcp-fetch/internal/config"
	"wcp-fetch/internal/fetcher"
	"wcp-fetch/internal/logger"
	"wcp-fetch/internal/state"
	"wcp-fetch/internal/wcpcli"
)

// configPath holds the path to the configuration YAML file.
// It's passed via the `--config` or `-c` flag.
var configPath string

// downloadDir optionally overrides the configured browser download directory.
var downloadDir string

// fetchCmd runs the full fetch-and-sync sequence for one application:
// login, id resolution, download, archive, clean, extract, descriptor rename.
var fetchCmd = &cobra.Command{
	Use:   "fetch <reference-id> <app-directory>",
	Short: "Download and sync an application's source into <app-directory>/src",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := afero.NewOsFs()

		cfg, err := config.Load(fs, configPath)
		if err != nil {
			return err
		}
		if downloadDir != "" {
			cfg.DownloadDir = downloadDir
		}

		// The platform prefixes reference ids with "wcp_" in some views;
		// apps:list reports them without it.
		referenceID := strings.TrimPrefix(args[0], "wcp_")
		appDir := args[1]

		st := state.Load(fs, cfg.StateFile)
		if prev, ok := st.Syncs[referenceID]; ok {
			logger.Info("[INFO] Previous sync of %s: app id %s at %s\n", referenceID, prev.AppID, prev.SyncedAt)
		}

		f := fetcher.New(fs, wcpcli.New(cfg.CLI), cfg)
		result, err := f.Sync(context.Background(), referenceID, appDir)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		st.Record(referenceID, result.AppID, result.ArchivePath)
		state.Save(fs, cfg.StateFile, st)

		logger.Info("[INFO] App download complete.\n")
		return nil
	},
	// Errors are already logged with the failing step; keep cobra quiet.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// init sets up CLI flags and registers the fetch command with the root command.
func init() {
	fetchCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	fetchCmd.Flags().StringVarP(&downloadDir, "download-dir", "d", "", "Override the browser download directory")

	rootCmd.AddCommand(fetchCmd)
}
