package cli

import (
	"github.com/spf13/cobra"

	"github.com/jobmatch-engine/backend/internal/api"
	"github.com/jobmatch-engine/backend/internal/catalogue"
	"github.com/jobmatch-engine/backend/internal/config"
	"github.com/jobmatch-engine/backend/internal/engine"
	"github.com/jobmatch-engine/backend/internal/geo"
	"github.com/jobmatch-engine/backend/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the match API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := newLogger()
		entry.Info("Starting JobMatch API Service")

		cfg := config.Load()

		source := catalogue.NewCSVSource(cfg.Catalogue.Source, cfg.Catalogue.LoadTimeout)
		extractor, err := loadExtractor(cfg)
		if err != nil {
			return err
		}

		var geocoder geo.Geocoder
		if cfg.Geocoder.Enabled {
			cache, err := storage.NewFileCache(cfg.Geocoder.CacheDir)
			if err != nil {
				return err
			}
			geocoder = geo.NewNominatimGeocoder(
				cfg.Geocoder.BaseURL,
				cfg.Geocoder.UserAgent,
				cfg.Geocoder.RequestTimeout,
				cfg.Geocoder.MinDelay,
				cache,
			)
		} else {
			entry.Info("Geocoding disabled, results will carry no coordinates")
		}

		eng := engine.New(cfg, entry, source, extractor, geocoder)
		server := api.NewServer(eng, entry)

		entry.Infof("JobMatch API ready on %s", cfg.Server.Port)
		return server.Start(cfg.Server.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
