package main

import (
	"fmt"

	"github.com/X1ag/RideBoard/internal/usecase"
	"github.com/spf13/cobra"
)

func newRecentCmd(load loadFunc) *cobra.Command {
	var (
		limit int
		find  string
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Print the most recent postings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			tripRepo, closeStore, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			if limit <= 0 {
				limit = cfg.Listing.RecentWindow
			}
			tripUC := usecase.NewTripUsecase(tripRepo)
			trips, err := tripUC.Search(cmd.Context(), find, cfg.Listing.SearchWindow, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(trips) == 0 {
				fmt.Fprintln(out, "no postings")
				return nil
			}
			for _, tr := range trips {
				fmt.Fprintf(out, "#%d %s\n", tr.ID, tr.CreatedAt.Format("2006-01-02 15:04"))
				fmt.Fprintln(out, usecase.FormatPosting(tr))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of postings (default listing.recent_window)")
	cmd.Flags().StringVar(&find, "find", "", "only postings matching every keyword")
	return cmd
}
