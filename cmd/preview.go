package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/ingest"
)

var previewFilePath string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what an import would do without writing anything",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		parsed, err := ingest.ParseFile(previewFilePath, ingest.ParseOptions{Strict: cfg.Import.Strict})
		if err != nil {
			return eris.Wrap(err, "parse file")
		}
		for _, e := range parsed.Errors {
			zap.L().Warn("parse error", zap.String("error", e))
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		result, err := ingest.NewPreviewer(st).Preview(ctx, parsed.Data)
		if err != nil {
			return eris.Wrap(err, "preview")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "encode result")
		}

		zap.L().Info("preview complete",
			zap.Int("new_facilities", len(result.NewFacilities)),
			zap.Int("existing_facilities", len(result.ExistingFacilities)),
			zap.Int("new_localities", len(result.NewLocalities)),
			zap.Int("new_regions", len(result.NewRegions)),
		)
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewFilePath, "file", "", "path to CSV/XLSX file (required)")
	_ = previewCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(previewCmd)
}
