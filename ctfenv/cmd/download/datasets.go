// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package download

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mlctf/platform/tools/ctfenv/cmd"
	"github.com/mlctf/platform/tools/internal/network"
	"github.com/spf13/cobra"
)

var forceDownload bool

var downloadDatasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Download the evaluation datasets declared in the project config",
	RunE: func(c *cobra.Command, args []string) error {
		return downloadDatasets(cmd.CmdEnv)
	},
	SilenceUsage: true,
}

func init() {
	downloadCmd.AddCommand(downloadDatasetsCmd)

	downloadDatasetsCmd.Flags().BoolVarP(&forceDownload, "force", "f", false, "Re-download datasets that are already present")
}

func downloadDatasets(env *cmd.ProjectEnv) error {
	datasets := env.Config.Datasets
	if len(datasets) == 0 {
		return fmt.Errorf("no datasets declared in %s", filepath.Join(env.ProjectDir, "ctfenv.yaml"))
	}

	for _, dataset := range datasets {
		destPath := dataset.Path
		if !filepath.IsAbs(destPath) {
			destPath = filepath.Join(env.ProjectDir, destPath)
		}

		if _, err := os.Stat(destPath); err == nil && !forceDownload {
			slog.Info("Dataset already present; skipping", "dataset", dataset.Name, "path", destPath)
			continue
		}

		slog.Info("Downloading dataset", "dataset", dataset.Name, "uri", dataset.Uri)

		err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm)
		if err != nil {
			return err
		}

		err = network.DownloadFileWithRetry(dataset.Uri, destPath)
		if err != nil {
			return fmt.Errorf("failed to download dataset '%s': %w", dataset.Name, err)
		}
	}

	slog.Info("Datasets ready", "count", len(datasets))

	return nil
}
