package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bnbscout/internal/ledger"
	"bnbscout/internal/tableutil"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showFailures bool

	cmd := &cobra.Command{
		Use:   "runs [search]",
		Short: "Show monitoring run history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg.Paths.SearchesDir)
			if err != nil {
				return err
			}
			defer store.Close()

			searchName := ""
			if len(args) == 1 {
				searchName = args[0]
			}

			out := cmd.OutOrStdout()
			if showFailures {
				failures, err := store.Failures(cmd.Context(), searchName, limit)
				if err != nil {
					return err
				}
				if len(failures) == 0 {
					fmt.Fprintln(out, "No recorded failures")
					return nil
				}
				rows := make([][]string, 0, len(failures))
				for _, f := range failures {
					rows = append(rows, []string{
						f.CreatedAt.Local().Format("2006-01-02 15:04"),
						f.SearchName,
						f.RoomID,
						f.Stage,
						f.Message,
					})
				}
				table := tableutil.Render(
					[]string{"When", "Search", "Room", "Stage", "Error"},
					rows,
					[]tableutil.Alignment{tableutil.AlignLeft, tableutil.AlignLeft, tableutil.AlignRight},
				)
				fmt.Fprintln(out, table)
				return nil
			}

			runs, err := store.Runs(cmd.Context(), searchName, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.SearchName,
					run.Status,
					strconv.Itoa(run.ListingsFound),
					strconv.Itoa(run.DetailsFetched),
					strconv.Itoa(run.RoomsScored),
					strconv.Itoa(run.RoomsFailed),
					runDuration(run),
				})
			}
			table := tableutil.Render(
				[]string{"Started", "Search", "Status", "Listings", "Details", "Scored", "Failed", "Duration"},
				rows,
				[]tableutil.Alignment{
					tableutil.AlignLeft, tableutil.AlignLeft, tableutil.AlignLeft,
					tableutil.AlignRight, tableutil.AlignRight, tableutil.AlignRight,
					tableutil.AlignRight, tableutil.AlignRight,
				},
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to show")
	cmd.Flags().BoolVar(&showFailures, "failures", false, "Show per-room fetch failures instead of runs")
	return cmd
}

func runDuration(run ledger.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
