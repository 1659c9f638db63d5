package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/trendscout/internal/cli"
	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/export"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export approved products as a Shopify import CSV",
		Long: `Write every approved product to a CSV file in Shopify's product import
format. Products are created as drafts.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "output file (default: shopify_products_YYYYMMDD.csv)")
	cmd.Flags().String("store", storeSQLite, "product store (sqlite, sheets)")
	cmd.Flags().BoolP("force", "f", false, "overwrite the output file without asking")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	output, _ := cmd.Flags().GetString("output")
	backend, _ := cmd.Flags().GetString("store")
	force, _ := cmd.Flags().GetBool("force")
	out := cmd.OutOrStdout()

	if output == "" {
		output = export.DefaultFilename(time.Now())
	}

	if _, err := os.Stat(output); err == nil && !force {
		ok, confirmErr := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out,
			fmt.Sprintf("%s already exists. Overwrite?", output))
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatInfo("Export cancelled"))
			return nil
		}
	}

	store, cleanup, err := openProductStore(ctx, backend)
	if err != nil {
		return err
	}
	defer cleanup()

	approved := model.StatusApproved
	products, err := store.ListProducts(ctx, service.ProductFilter{Status: &approved})
	if err != nil {
		return fmt.Errorf("failed to list approved products: %w", err)
	}
	if len(products) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No approved products to export. Approve some with: scout review"))
		return nil
	}

	n, err := writeExportFile(output, products)
	if err != nil {
		return common.NewUserError("Could not write "+output, err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s Exported %d products to %s", cli.BoxIcon, n, output)))
	return nil
}

// writeExportFile writes the CSV to a temporary file next to path and renames
// it into place, so an interrupted export never leaves a partial file.
func writeExportFile(path string, products []model.ProductRecord) (n int, err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shopify-export-*.csv")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("failed to set file mode: %w", err)
	}

	n, err = export.WriteShopifyCSV(tmp, products)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, err
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("failed to move export into place: %w", err)
	}
	return n, nil
}
