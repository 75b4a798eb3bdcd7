package cmd

import (
	"time"

	"bandori-index/feature/catalog/artifact"
	"bandori-index/feature/catalog/graph"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch upstream data and write the catalog artifact",
	Long: `Fetches every kind through the cached client, validates and resolves the records,
then writes the artifact and the asset manifest. Nothing is written when any step fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		refetch, _ := cmd.Flags().GetBool("refetch")
		out, _ := cmd.Flags().GetString("out")

		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		fs := afero.NewOsFs()
		client, err := newFetchClient(cfg, fs, logg)
		if err != nil {
			return err
		}

		g, err := resolveCatalog(ctx, client, cfg, logg, refetch)
		if err != nil {
			return err
		}

		data, err := artifact.Marshal(g.Sections())
		if err != nil {
			return err
		}
		manifest, err := graph.EncodeManifest(g.Manifest())
		if err != nil {
			return err
		}

		artifactPath, manifestPath := artifactPaths(cfg, out)
		err = writeFilesAtomic(fs,
			outputFile{Path: artifactPath, Data: data},
			outputFile{Path: manifestPath, Data: manifest},
		)
		if err != nil {
			return err
		}

		logg.Info("Wrote catalog",
			zap.String("artifact", artifactPath),
			zap.Int("bytes", len(data)),
			zap.String("manifest", manifestPath),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	},
}

func init() {
	buildCmd.Flags().Bool("refetch", false, "Ignore the cache and refetch every document")
	buildCmd.Flags().String("out", "", "Artifact path (defaults to catalog.dir/catalog.output)")
	RootCmd.AddCommand(buildCmd)
}
