package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/trendscout/internal/cli"
	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/config"
	"github.com/Veraticus/trendscout/internal/docs"
	"github.com/Veraticus/trendscout/internal/engine"
	"github.com/Veraticus/trendscout/internal/report"
	"github.com/Veraticus/trendscout/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a digest of the best stored products",
		Long: `Rank stored products by overall score and print a digest, optionally
grouped by country and published to a Google Doc.`,
		RunE: runReport,
	}

	cmd.Flags().Int("top", report.DefaultTopN, "products per list")
	cmd.Flags().Bool("by-country", false, "group the digest by country")
	cmd.Flags().Bool("publish-doc", false, "publish the digest to a Google Doc")
	cmd.Flags().String("run", "", "only include products from this run ID")
	cmd.Flags().String("status", "", "only include products with this review status")
	cmd.Flags().String("store", storeSQLite, "product store (sqlite, sheets)")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	top, _ := cmd.Flags().GetInt("top")
	byCountry, _ := cmd.Flags().GetBool("by-country")
	publishDoc, _ := cmd.Flags().GetBool("publish-doc")
	runID, _ := cmd.Flags().GetString("run")
	statusFlag, _ := cmd.Flags().GetString("status")
	backend, _ := cmd.Flags().GetString("store")

	filter := service.ProductFilter{RunID: runID}
	if statusFlag != "" {
		status, err := parseStatusFlag(statusFlag)
		if err != nil {
			return err
		}
		filter.Status = &status
	}

	store, cleanup, err := openProductStore(ctx, backend)
	if err != nil {
		return err
	}
	defer cleanup()

	products, err := store.ListProducts(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	digest := report.Format(products, report.Options{
		Now:            time.Now(),
		TopN:           top,
		GroupByCountry: byCountry,
	})
	fmt.Fprintln(cmd.OutOrStdout(), digest)

	if publishDoc {
		publishDigest(ctx, cmd, digest)
	}
	return nil
}

// publishDigest creates a Google Doc holding the digest. Failures are
// reported but never fail the command; the digest was already printed.
func publishDigest(ctx context.Context, cmd *cobra.Command, digest string) {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadDocsConfig(viper.GetViper())
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			fmt.Fprintln(out, cli.FormatWarning("Google Docs is not configured; skipping publish"))
		} else {
			fmt.Fprintln(out, cli.FormatError("Invalid Google Docs configuration: "+err.Error()))
		}
		return
	}

	publisher, err := docs.NewPublisher(ctx, cfg, slog.Default())
	if err != nil {
		fmt.Fprintln(out, cli.FormatError("Could not connect to Google Docs: "+err.Error()))
		return
	}

	url, err := publisher.Publish(ctx, publisher.Title(time.Now()), digest)
	if err != nil {
		fmt.Fprintln(out, cli.FormatError("Failed to publish digest: "+err.Error()))
		return
	}
	fmt.Fprintln(out, cli.FormatSuccess(cli.DocIcon+" Digest published: "+url))
}

func printRunSummary(cmd *cobra.Command, result *engine.Result) {
	s := result.Summary
	content := fmt.Sprintf(
		"Collected:     %d\nExtracted:     %d\nDuplicates:    %d\nBelow margin:  %d\nSaved:         %d\nSource errors: %d\nAvg margin:    %.1f%%\nAvg profit:    $%.2f\nDuration:      %s",
		s.Collected, s.Extracted, s.Duplicates, s.BelowMargin, s.Saved, s.SourceErrors,
		s.AverageMargin, s.AverageProfit, s.Duration.Round(time.Millisecond),
	)
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.ChartIcon+" Run "+s.RunID, content))
}
