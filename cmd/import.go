package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/ingest"
)

var (
	importFilePath   string
	importUpdate     bool
	importNoSkip     bool
	importStrict     bool
	importNoValidate bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import facilities from a CSV or XLSX export",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		parsed, err := ingest.ParseFile(importFilePath, ingest.ParseOptions{
			Strict: importStrict || cfg.Import.Strict,
		})
		if err != nil {
			return eris.Wrap(err, "parse file")
		}
		for _, e := range parsed.Errors {
			zap.L().Warn("parse error", zap.String("error", e))
		}
		for _, w := range parsed.Warnings {
			zap.L().Warn("parse warning", zap.String("warning", w))
		}

		if !importNoValidate {
			if v := ingest.ValidateAll(parsed.Data); !v.Valid {
				for _, e := range v.Errors {
					zap.L().Error("validation error", zap.String("error", e))
				}
				return eris.Errorf("validation failed with %d error(s)", len(v.Errors))
			}
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		opts := ingest.ImportOptions{
			UpdateExisting: importUpdate || cfg.Import.UpdateExisting,
			SkipInvalid:    !importNoSkip && cfg.Import.SkipInvalid,
		}
		result := ingest.NewImporter(st).Import(ctx, parsed.Data, opts)

		for _, e := range result.Errors {
			zap.L().Warn("import error",
				zap.String("record", e.Name),
				zap.String("message", e.Message),
			)
		}
		zap.L().Info("import finished",
			zap.Bool("success", result.Success),
			zap.Int("parsed", parsed.Stats.Parsed),
			zap.Int("inserted", result.Inserted),
			zap.Int("updated", result.Updated),
			zap.Int("failed", result.Failed),
		)

		if !result.Success {
			return eris.New("import aborted on first failure")
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to CSV/XLSX file (required)")
	importCmd.Flags().BoolVar(&importUpdate, "update", false, "update facilities that already exist")
	importCmd.Flags().BoolVar(&importNoSkip, "no-skip", false, "abort the batch on the first failure")
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "report silently-dropped boolean/number values")
	importCmd.Flags().BoolVar(&importNoValidate, "no-validate", false, "skip domain validation before import")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
