package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/service"
	"github.com/Veraticus/trendscout/internal/tui"
	"github.com/Veraticus/trendscout/internal/tui/themes"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review products in an interactive dashboard",
		Long: `Open a terminal dashboard listing stored products. Approve, reject or revert
products, edit their notes and cycle the status filter. Every decision is
written to the store immediately.`,
		RunE: runReview,
	}

	cmd.Flags().String("store", storeSQLite, "product store (sqlite, sheets)")
	cmd.Flags().String("run", "", "only load products from this research run")
	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")

	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	backend, _ := cmd.Flags().GetString("store")

	runID, _ := cmd.Flags().GetString("run")
	filter := service.ProductFilter{RunID: runID}

	store, cleanup, err := openProductStore(ctx, backend)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := tui.Run(ctx, store,
		tui.WithTheme(themes.GetTheme(viper.GetString("tui.theme"))),
		tui.WithFilter(filter),
	); err != nil {
		return common.NewUserError("Review ended with an error", err)
	}
	return nil
}
