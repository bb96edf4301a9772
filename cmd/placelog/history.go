package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"placelog/internal/bootstrap"
	"placelog/internal/shared"
)

func newHistoryCmd(cfg *shared.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses (requires MYSQL_DSN)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > 200 {
				return errors.New("--limit must be between 1 and 200")
			}
			repo, closeRepo, err := bootstrap.OpenHistory(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRepo()
			if repo == nil {
				return errors.New("history is not configured; set MYSQL_DSN")
			}

			rows, err := repo.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tPLACE\tADDRESS\tSHARED")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.CreatedAt.Format(time.DateTime), r.Name, r.Address, r.ShareURL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to show")
	return cmd
}
