package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bnbscout/internal/search"
	"bnbscout/internal/tableutil"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Manage saved searches",
	}

	searchCmd.AddCommand(newSearchListCommand(ctx))
	searchCmd.AddCommand(newSearchNewCommand(ctx))

	return searchCmd
}

func newSearchListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			names, err := search.List(cfg.Paths.SearchesDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No saved searches. Create one with `bnbscout search new <url>`.")
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				sc, err := search.Load(cfg.Paths.SearchesDir, name)
				if err != nil {
					rows = append(rows, []string{name, "-", "-", err.Error()})
					continue
				}
				rows = append(rows, []string{
					name,
					sc.Config.CheckIn,
					sc.Config.CheckOut,
					sc.Config.Currency,
				})
			}
			table := tableutil.Render(
				[]string{"Name", "Check-in", "Check-out", "Currency"},
				rows,
				nil,
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newSearchNewCommand(ctx *commandContext) *cobra.Command {
	var nameFlag string
	var currencyFlag string

	cmd := &cobra.Command{
		Use:   "new <url>",
		Short: "Create a search from a marketplace search URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			params, err := search.ParseURL(args[0])
			if err != nil {
				return err
			}

			name := strings.TrimSpace(nameFlag)
			if name == "" {
				name = params.SuggestedName()
			}
			currency := strings.ToUpper(strings.TrimSpace(currencyFlag))
			if currency == "" {
				currency = cfg.Marketplace.Currency
			}

			sc, err := search.Create(cfg.Paths.SearchesDir, name, params, currency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created search %q in %s\n", sc.Name, sc.Dir)
			fmt.Fprintf(out, "Review %s before the first run.\n", sc.ConfigPath())
			return nil
		},
	}

	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Search name (derived from the URL when omitted)")
	cmd.Flags().StringVar(&currencyFlag, "currency", "", "Currency for price quotes (defaults to the configured currency)")
	return cmd
}
