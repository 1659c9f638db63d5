package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/trendscout/internal/cli"
	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/config"
	"github.com/Veraticus/trendscout/internal/engine"
	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/llm"
	"github.com/Veraticus/trendscout/internal/report"
	"github.com/Veraticus/trendscout/internal/source"
	"github.com/Veraticus/trendscout/internal/storage"
)

const searchResultsPerQuery = 10

func researchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Find, price and score trending products",
		Long: `Run one research batch: collect trending products from search, best-seller
listings and trend articles, look up supplier prices, score every product and
save the results to the local database (and Google Sheets when configured).

Sources without credentials are skipped with a warning.`,
		RunE: runResearch,
	}

	cmd.Flags().String("strategy", "", "scoring strategy (margin, rated, auto)")
	cmd.Flags().Bool("dry-run", false, "score products without saving them")
	cmd.Flags().Bool("publish-doc", false, "publish the digest to a Google Doc")
	cmd.Flags().Bool("bestsellers", false, "include marketplace best-seller listings")
	cmd.Flags().StringSlice("countries", nil, "market codes to research (e.g. us,au,ae,sa)")

	_ = viper.BindPFlag("research.strategy", cmd.Flags().Lookup("strategy"))
	_ = viper.BindPFlag("research.bestsellers", cmd.Flags().Lookup("bestsellers"))
	_ = viper.BindPFlag("research.countries", cmd.Flags().Lookup("countries"))

	return cmd
}

// researchDeps are the collaborators assembled from configuration.
type researchDeps struct {
	searcher  source.Searcher
	assistant *llm.Assistant
	fetcher   *source.Fetcher
}

func loadResearchDeps(logger *slog.Logger) researchDeps {
	deps := researchDeps{fetcher: source.NewFetcher(nil)}

	serperCfg, err := config.LoadSerperConfig(viper.GetViper())
	switch {
	case errors.Is(err, common.ErrMissingConfig):
		logger.Warn("Search is not configured; search, article and supplier lookups are skipped", "hint", "set SERPER_API_KEY")
	case err != nil:
		logger.Warn("Invalid search configuration", "error", err)
	default:
		client, clientErr := source.NewSerperClient(serperCfg, logger)
		if clientErr != nil {
			logger.Warn("Failed to create search client", "error", clientErr)
		} else {
			deps.searcher = client
		}
	}

	llmCfg, err := config.LoadLLMConfig(viper.GetViper())
	switch {
	case errors.Is(err, common.ErrMissingConfig):
		logger.Warn("Language model is not configured; article discovery and rated scoring are skipped")
	case err != nil:
		logger.Warn("Invalid language model configuration", "error", err)
	default:
		assistant, assistantErr := llm.NewAssistant(llmCfg, logger)
		if assistantErr != nil {
			logger.Warn("Failed to create language model client", "error", assistantErr)
		} else {
			deps.assistant = assistant
		}
	}

	return deps
}

// buildSources returns the sources the configuration allows.
func buildSources(r config.Research, deps researchDeps, logger *slog.Logger) []source.Source {
	var sources []source.Source

	if deps.searcher != nil && len(r.SearchQueries) > 0 {
		sources = append(sources, source.NewSearchSource(deps.searcher, r.SearchQueries, r.Countries, searchResultsPerQuery))
	}

	if r.Bestsellers {
		categories := r.BestsellerCategories
		if len(categories) == 0 {
			categories = source.DefaultBestsellerCategories
		}
		for _, code := range r.Countries {
			market, ok := source.LookupMarket(code)
			if !ok || market.BestsellerURL == "" {
				continue
			}
			sources = append(sources, source.NewBestsellerSource(deps.fetcher, market, categories))
		}
	}

	if deps.searcher != nil && deps.assistant != nil {
		sources = append(sources, source.NewArticleSource(deps.searcher, deps.fetcher, deps.assistant, r.ArticleConfig(), logger))
	}

	return sources
}

func runResearch(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	publishDoc, _ := cmd.Flags().GetBool("publish-doc")
	out := cmd.OutOrStdout()
	logger := slog.Default()

	research, err := config.LoadResearch(viper.GetViper())
	if err != nil {
		return common.NewUserError("Invalid research settings", err)
	}

	deps := loadResearchDeps(logger)
	sources := buildSources(research, deps, logger)
	if len(sources) == 0 {
		return common.NewUserError(
			"No product sources are available. Configure SERPER_API_KEY (with an LLM key for articles) or enable --bestsellers",
			common.ErrNoProducts)
	}

	interrupts := cli.NewInterruptHandler(out)
	ctx := interrupts.HandleInterrupts(cmd.Context(), !dryRun)

	engineCfg := research.EngineConfig()
	engineCfg.DryRun = dryRun

	progress := cli.NewStageProgress(cmd.ErrOrStderr())
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithProgress(progress.Update),
	}
	if deps.searcher != nil {
		opts = append(opts, engine.WithSupplierFinder(source.NewSupplierFinder(deps.searcher)))
	}
	if deps.assistant != nil {
		opts = append(opts, engine.WithRater(deps.assistant))
	}

	var db *storage.SQLiteStorage
	if !dryRun {
		db, err = initStorage(ctx)
		if err != nil {
			return common.NewUserError("Could not open the product database", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close database", "error", err)
			}
		}()
		opts = append(opts, engine.WithStore(db))

		sheetStore, sheetErr := initSheets(ctx)
		switch {
		case sheetErr != nil:
			logger.Warn("Google Sheets unavailable; saving locally only", "error", sheetErr)
		case sheetStore != nil:
			opts = append(opts, engine.WithStore(sheetStore))
		}
	}

	collector := source.NewCollector(logger, research.Delay, sources...)
	pipeline, err := engine.New(collector, extract.New(research.Keywords), engineCfg, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatTitle("Researching trending products"))
	result, runErr := pipeline.Run(ctx)
	progress.Finish()

	if interrupts.WasInterrupted() {
		return nil
	}
	if result == nil {
		return fmt.Errorf("research failed: %w", runErr)
	}
	if len(result.Products) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No products found this run."))
	}

	if db != nil {
		if err := db.SaveRun(ctx, result.Summary); err != nil {
			logger.Warn("Failed to record run summary", "error", err)
		}
	}

	printRunSummary(cmd, result)

	digest := report.Format(result.Products, report.Options{
		Now:  time.Now(),
		TopN: research.TopN,
	})
	fmt.Fprintln(out)
	fmt.Fprintln(out, digest)

	if publishDoc {
		publishDigest(ctx, cmd, digest)
	}

	if runErr != nil {
		return fmt.Errorf("research finished with errors: %w", runErr)
	}
	return nil
}
