package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bnbscout/internal/pipeline"
)

func newMonitorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor <search>",
		Short: "Fetch listings, reviews, and AI scores for a search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := ctx.loadSearch(args[0])
			if err != nil {
				return err
			}

			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := runner.Run(cmd.Context(), sc)
			if err != nil {
				if errors.Is(err, pipeline.ErrSearchLocked) {
					return fmt.Errorf("search %q is already being monitored: %w", sc.Name, err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s completed for %s\n", result.RunID, sc.Name)
			fmt.Fprintf(out, "  listings:  %d (%d new)\n", result.ListingsFound, result.NewListings)
			fmt.Fprintf(out, "  details:   %d fetched\n", result.DetailsFetched)
			fmt.Fprintf(out, "  scored:    %d reviews\n", result.RoomsScored)
			if result.RoomsFailed > 0 {
				fmt.Fprintf(out, "  failed:    %d rooms (see %s)\n", result.RoomsFailed, sc.FailedRoomsPath())
			}
			return nil
		},
	}
}
