package cmd

import (
	"context"
	"path/filepath"

	"bandori-index/core/loader"
	"bandori-index/core/logger"
	"bandori-index/core/middleware/auth"
	"bandori-index/core/middleware/rayid"
	"bandori-index/core/storage"
	"bandori-index/feature/catalog"
	"bandori-index/feature/publish"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog preview server",
	Long:  `Serves the last built catalog over HTTP, from local files or with --from-storage from the publish bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fromStorage, _ := cmd.Flags().GetBool("from-storage")

		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()

		var source catalog.Source
		catalogCfg := cfg.Catalog
		if fromStorage {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
			source = publish.NewPublisher(store, cfg.Storage, nil, logg)
			catalogCfg.Output = publish.ArtifactName
			catalogCfg.Manifest = publish.ManifestName
		} else {
			artifactPath, _ := artifactPaths(cfg, "")
			source = catalog.NewDirSource(afero.NewOsFs(), filepath.Dir(artifactPath))
		}

		feature := catalog.NewFeature(source, catalogCfg, logg)
		if err := feature.Service().Load(ctx); err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		mgr := loader.NewManager(logg)
		mgr.Register(feature)
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().Bool("from-storage", false, "Load the catalog from the publish bucket")
	RootCmd.AddCommand(serveCmd)
}
