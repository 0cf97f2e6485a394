package main

import (
	"github.com/spf13/cobra"

	"bnbscout/internal/dashboard"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard <search>",
		Short: "Browse, filter, and rate the merged results of a search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := ctx.loadSearch(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			session, err := dashboard.NewSession(sc,
				dashboard.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
				dashboard.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			return session.Run()
		},
	}
}
