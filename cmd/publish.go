package cmd

import (
	"fmt"
	"os"

	"bandori-index/core/database"
	"bandori-index/core/reconcile"
	"bandori-index/core/storage"
	"bandori-index/feature/catalog/export"
	"bandori-index/feature/publish"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the built catalog to object storage",
	Long: `Uploads the artifact and the asset manifest of the last build under the storage
prefix. With --assets every manifest source asset is also mirrored under raw/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mirror, _ := cmd.Flags().GetBool("assets")

		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		fs := afero.NewOsFs()
		artifactPath, manifestPath := artifactPaths(cfg, "")
		data, err := afero.ReadFile(fs, artifactPath)
		if err != nil {
			return fmt.Errorf("failed to read artifact (run build first): %w", err)
		}
		manifest, err := afero.ReadFile(fs, manifestPath)
		if err != nil {
			return fmt.Errorf("failed to read manifest (run build first): %w", err)
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}

		var fetcher publish.Fetcher
		if mirror {
			client, err := newFetchClient(cfg, fs, logg)
			if err != nil {
				return err
			}
			fetcher = client
		}

		p := publish.NewPublisher(store, cfg.Storage, fetcher, logg)
		if err := p.Publish(ctx, data, manifest); err != nil {
			return err
		}
		if !mirror {
			return nil
		}

		entries, err := readManifest(fs, manifestPath)
		if err != nil {
			return err
		}
		_, err = p.Mirror(ctx, entries)
		return err
	},
}

// publishCheckCmd represents the publish check command
var publishCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "List manifest assets missing from the storage mirror",
	Long: `Compares the manifest of the last build with the raw mirror in one listing and,
with --db, with the exported catalog_assets table. --purge deletes mirrored objects
the manifest no longer references.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jsonOutput, _ := cmd.Flags().GetBool("json")
		purge, _ := cmd.Flags().GetBool("purge")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		withDB, _ := cmd.Flags().GetBool("db")

		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		_, manifestPath := artifactPaths(cfg, "")
		entries, err := readManifest(afero.NewOsFs(), manifestPath)
		if err != nil {
			return err
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}

		opts := reconcile.Options{DoPurge: purge, Confirmed: purge, DryRun: dryRun}
		var extra []reconcile.Source
		if withDB {
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return fmt.Errorf("database connection required: %w", err)
			}
			extra = append(extra, export.AssetSource(db))
		}

		report, err := publish.NewPublisher(store, cfg.Storage, nil, logg).Check(ctx, entries, opts, extra...)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		logg.Info("Mirror check complete",
			zap.Int("total", report.Total),
			zap.Int("missing", len(report.Missing)),
			zap.Int("stale", len(report.Stale)),
			zap.Int("purged", report.Purged),
			zap.Any("missing_by_target", report.Summary.Missing),
		)
		for _, e := range report.Missing {
			logg.Warn("Missing mirrored asset", zap.String("type", e.Type), zap.String("filename", e.Filename), zap.String("pathname", e.Pathname))
		}
		for _, name := range report.Stale {
			logg.Warn("Stale mirrored object", zap.String("object", name))
		}
		if len(report.Missing) > 0 {
			return fmt.Errorf("%d of %d assets missing from the mirror", len(report.Missing), report.Total)
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().Bool("assets", false, "Mirror every manifest source asset")
	publishCheckCmd.Flags().Bool("json", false, "Output the report as JSON")
	publishCheckCmd.Flags().Bool("purge", false, "Delete stale mirrored objects")
	publishCheckCmd.Flags().Bool("dry-run", false, "Plan the purge without deleting")
	publishCheckCmd.Flags().Bool("db", false, "Also compare the exported catalog_assets table")
	publishCmd.AddCommand(publishCheckCmd)
	RootCmd.AddCommand(publishCmd)
}
