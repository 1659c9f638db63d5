package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/trendscout/internal/cli"
	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

// Output formats for products list.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "List and review stored products",
	}
	cmd.PersistentFlags().String("store", storeSQLite, "product store (sqlite, sheets)")

	cmd.AddCommand(productsListCmd())
	cmd.AddCommand(productsStatusCmd("approve", model.StatusApproved, "Approve a product for export"))
	cmd.AddCommand(productsStatusCmd("reject", model.StatusRejected, "Reject a product"))
	cmd.AddCommand(productsStatusCmd("pending", model.StatusPending, "Move a product back to pending"))
	cmd.AddCommand(productsNoteCmd())
	cmd.AddCommand(productsHistoryCmd())

	return cmd
}

func productsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			backend, _ := cmd.Flags().GetString("store")
			format, _ := cmd.Flags().GetString("format")

			filter, err := listFilter(cmd)
			if err != nil {
				return err
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
			return writeProducts(cmd.OutOrStdout(), format, products)
		},
	}

	cmd.Flags().String("status", "", "filter by review status (pending, approved, rejected)")
	cmd.Flags().String("country", "", "filter by country name")
	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("run", "", "filter by research run ID")
	cmd.Flags().Int("min-score", 0, "minimum overall score")
	cmd.Flags().Int("limit", 0, "maximum number of products")
	cmd.Flags().String("format", formatTable, "output format (table, json, yaml, csv)")

	return cmd
}

func listFilter(cmd *cobra.Command) (service.ProductFilter, error) {
	statusFlag, _ := cmd.Flags().GetString("status")
	country, _ := cmd.Flags().GetString("country")
	category, _ := cmd.Flags().GetString("category")
	runID, _ := cmd.Flags().GetString("run")
	minScore, _ := cmd.Flags().GetInt("min-score")
	limit, _ := cmd.Flags().GetInt("limit")

	filter := service.ProductFilter{
		Country:  country,
		Category: category,
		RunID:    runID,
		MinScore: minScore,
		Limit:    limit,
	}
	if statusFlag != "" {
		status, err := parseStatusFlag(statusFlag)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

func parseStatusFlag(s string) (model.ReviewStatus, error) {
	status, err := model.ParseReviewStatus(s)
	if err != nil {
		return "", common.NewUserError("Status must be pending, approved or rejected", err)
	}
	return status, nil
}

func productsStatusCmd(use string, status model.ReviewStatus, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <identity>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, _ := cmd.Flags().GetString("store")

			var notes *string
			if cmd.Flags().Changed("notes") {
				n, _ := cmd.Flags().GetString("notes")
				notes = &n
			}

			store, cleanup, err := openProductStore(ctx, backend)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.SetStatus(ctx, args[0], status, notes); err != nil {
				return common.NewUserError("Could not update "+args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s → %s", args[0], cli.FormatStatus(status))))
			return nil
		},
	}
	cmd.Flags().String("notes", "", "replace the review notes")
	return cmd
}

func productsNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <identity> <text>",
		Short: "Replace the review notes of a product",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, _ := cmd.Flags().GetString("store")

			store, cleanup, err := openProductStore(ctx, backend)
			if err != nil {
				return err
			}
			defer cleanup()

			notes := strings.Join(args[1:], " ")
			if err := store.SetNotes(ctx, args[0], notes); err != nil {
				return common.NewUserError("Could not update notes of "+args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Notes saved"))
			return nil
		},
	}
}

func productsHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <identity>",
		Short: "Show the review history of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return common.NewUserError("Could not open the product database", err)
			}
			defer func() { _ = store.Close() }()

			events, err := store.ReviewHistory(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load review history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No review actions recorded for "+args[0]))
				return nil
			}
			for _, e := range events {
				line := fmt.Sprintf("%s  %s → %s", e.ChangedAt.Local().Format(time.DateTime), e.FromStatus, cli.FormatStatus(e.ToStatus))
				if e.Notes != "" {
					line += "  " + cli.SubtleStyle.Render(e.Notes)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

// writeProducts renders products in the requested format.
func writeProducts(w io.Writer, format string, products []model.ProductRecord) error {
	switch strings.ToLower(format) {
	case formatTable, "":
		if len(products) == 0 {
			_, err := fmt.Fprintln(w, cli.FormatInfo("No products found"))
			return err
		}
		_, err := fmt.Fprintln(w, cli.RenderProductTable(products))
		return err

	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if products == nil {
			products = []model.ProductRecord{}
		}
		return enc.Encode(products)

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(products); err != nil {
			return err
		}
		return enc.Close()

	case formatCSV:
		return writeProductsCSV(w, products)

	default:
		return fmt.Errorf("%w: unknown format %q (use table, json, yaml or csv)", common.ErrInvalidConfig, format)
	}
}

var productCSVHeader = []string{
	"identity", "name", "category", "country", "overall", "retail_price",
	"supplier_price", "margin_percent", "status", "notes", "created_at",
}

func writeProductsCSV(w io.Writer, products []model.ProductRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productCSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		marginPct := ""
		if p.Margin != nil {
			marginPct = strconv.FormatFloat(p.Margin.MarginPercent, 'f', 2, 64)
		}
		row := []string{
			p.Identity,
			p.Name,
			string(p.Category),
			p.Country,
			strconv.Itoa(p.Scores.Overall),
			optionalFloat(p.RetailPrice),
			optionalFloat(p.SupplierPrice),
			marginPct,
			string(p.Status),
			p.Notes,
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
