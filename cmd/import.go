package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/barmania-cli/internal/config"
	"github.com/sells-group/barmania-cli/internal/export"
	"github.com/sells-group/barmania-cli/internal/library"
	"github.com/sells-group/barmania-cli/internal/store"
)

var importClipsPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a saved clip collection into the video library",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		_, err := runImport(cmd.Context(), cfg, importClipsPath)
		return err
	},
}

func init() {
	importCmd.Flags().StringVar(&importClipsPath, "clips", "", "path to the clip JSON file (default output.path)")
	rootCmd.AddCommand(importCmd)
}

func runImport(ctx context.Context, c *config.Config, path string) (store.ImportStats, error) {
	if path == "" {
		path = c.Output.Path
	}

	clips, err := export.ReadClips(path)
	if err != nil {
		return store.ImportStats{}, eris.Wrap(err, "import: read clips")
	}
	zap.L().Info("loaded clips", zap.Int("count", len(clips)), zap.String("path", path))

	st, err := store.Open(ctx, c.Store.Driver, c.Store.DatabaseURL)
	if err != nil {
		return store.ImportStats{}, eris.Wrap(err, "import: open store")
	}
	defer st.Close() //nolint:errcheck

	stats, err := library.Import(ctx, st, clips)
	if err != nil {
		return store.ImportStats{}, eris.Wrap(err, "import: load library")
	}
	return stats, nil
}
