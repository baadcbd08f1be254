package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/importer"
	"github.com/sells-group/plant-locator/internal/metrics"
	"github.com/sells-group/plant-locator/internal/supplier"
)

var (
	suppliersFile      string
	suppliersRegion    string
	suppliersMaterials string
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "Manage the local supplier directory",
}

var suppliersImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import suppliers from a CSV or XLSX file",
	Long: "Reads a header row followed by one supplier per row. Recognised columns: " +
		"name, material, process, address, city, state (or region), latitude, longitude, contact. " +
		"Rows that fail validation are skipped and reported.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		res, err := importer.New(dataset.Default()).ImportFile(suppliersFile)
		if err != nil {
			return eris.Wrap(err, "suppliers import")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.UpsertSuppliers(ctx, res.Suppliers)
		if err != nil {
			return eris.Wrap(err, "suppliers import")
		}
		metrics.DefaultRegistry().RecordImport(len(res.Suppliers), len(res.Skipped))

		for _, skip := range res.Skipped {
			zap.L().Warn("supplier row skipped", zap.Int("row", skip.Row), zap.String("reason", skip.Reason))
		}
		zap.L().Info("supplier import complete",
			zap.String("file", suppliersFile),
			zap.Int("upserted", n),
			zap.Int("skipped", len(res.Skipped)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d suppliers, skipped %d rows\n", n, len(res.Skipped))
		return nil
	},
}

var suppliersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suppliers in a region",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		region, ok := dataset.Default().ResolveRegion(suppliersRegion)
		if !ok {
			region = strings.TrimSpace(suppliersRegion)
		}
		sups, err := st.SuppliersByRegion(ctx, region, supplier.ParseMaterials(suppliersMaterials))
		if err != nil {
			return eris.Wrap(err, "suppliers list")
		}
		if len(sups) == 0 {
			cmd.PrintErrln("No suppliers found.")
			return nil
		}
		renderSuppliers(cmd.OutOrStdout(), sups)
		return nil
	},
}

func init() {
	suppliersImportCmd.Flags().StringVar(&suppliersFile, "file", "", "path to .csv or .xlsx file (required)")
	_ = suppliersImportCmd.MarkFlagRequired("file")

	suppliersListCmd.Flags().StringVar(&suppliersRegion, "region", "", "state or union territory (required)")
	suppliersListCmd.Flags().StringVar(&suppliersMaterials, "materials", "", "comma-separated materials to match")
	_ = suppliersListCmd.MarkFlagRequired("region")

	suppliersCmd.AddCommand(suppliersImportCmd, suppliersListCmd)
	rootCmd.AddCommand(suppliersCmd)
}
