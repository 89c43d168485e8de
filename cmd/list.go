package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/store"
)

var (
	listRegion string
	listLimit  int
	listOffset int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported facilities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		facilities, err := st.ListFacilities(ctx, store.FacilityFilter{
			RegionSlug: listRegion,
			Limit:      listLimit,
			Offset:     listOffset,
		})
		if err != nil {
			return eris.Wrap(err, "list facilities")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(facilities), "encode facilities")
	},
}

func init() {
	listCmd.Flags().StringVar(&listRegion, "region", "", "filter by region slug")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "maximum facilities to list")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "offset into the result set")
	rootCmd.AddCommand(listCmd)
}
