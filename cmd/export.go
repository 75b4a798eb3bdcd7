package cmd

import (
	"fmt"
	"os"

	"bandori-index/core/database"
	"bandori-index/feature/catalog/export"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog into a SQL database",
	Long: `Builds the catalog from the cache and replaces the catalog_entities and
catalog_assets tables in one transaction. Tables are migrated first unless
--verify is given, which only compares the live schema with the models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		verifyOnly, _ := cmd.Flags().GetBool("verify")
		refetch, _ := cmd.Flags().GetBool("refetch")

		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}
		exp := export.NewExporter(db, logg)

		if verifyOnly {
			report, err := exp.Verify()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Matched {
				return fmt.Errorf("catalog tables do not match the models")
			}
			return nil
		}

		client, err := newFetchClient(cfg, afero.NewOsFs(), logg)
		if err != nil {
			return err
		}
		g, err := resolveCatalog(ctx, client, cfg, logg, refetch)
		if err != nil {
			return err
		}

		if err := exp.Migrate(ctx); err != nil {
			return err
		}
		_, err = exp.Export(ctx, g)
		return err
	},
}

func init() {
	exportCmd.Flags().Bool("verify", false, "Only check the live table columns")
	exportCmd.Flags().Bool("refetch", false, "Ignore the cache and refetch every document")
	RootCmd.AddCommand(exportCmd)
}
