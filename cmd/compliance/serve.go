package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/compliance-go/internal/server"
	"github.com/ukaji3/compliance-go/internal/source"
	"github.com/ukaji3/compliance-go/internal/store"
	"github.com/ukaji3/compliance-go/internal/watch"
)

var (
	serveAddr  string
	serveLoad  string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the loaded dataset over an HTTP API",
	Long: `Starts the JSON API. A workbook can be preloaded with --load, kept in sync
with --watch, fetched from the configured Google Sheet, or uploaded later
through POST /api/workbook.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveLoad, "load", "", "Workbook to load at startup")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "Workbook to load and reload on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveWatch != "" {
		cfg.Source.WatchFile = serveWatch
	}

	st := store.New(store.Config{
		Options:         parseOptions(),
		CacheTTL:        cfg.GetCacheTTL(),
		CleanupInterval: cfg.GetCacheCleanupInterval(),
	}, logger.Named("store"))
	fetcher := source.NewFetcher(&http.Client{}, cfg.MaxUploadBytes())

	loadFile := func(_ context.Context, path string) error {
		buf, err := source.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = st.Load(buf, "file:"+path)
		return err
	}

	switch {
	case serveLoad != "":
		if err := loadFile(ctx, serveLoad); err != nil {
			return fmt.Errorf("failed to load %s: %w", serveLoad, err)
		}
	case cfg.Source.WatchFile != "":
		if err := loadFile(ctx, cfg.Source.WatchFile); err != nil {
			logger.Warn("initial load failed", zap.String("file", cfg.Source.WatchFile), zap.Error(err))
		}
	case cfg.Source.SheetURL != "":
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.GetFetchTimeout())
		buf, err := fetcher.FetchSheet(fetchCtx, cfg.Source.SheetURL)
		cancel()
		if err == nil {
			_, err = st.Load(buf, "sheet:"+cfg.Source.SheetURL)
		}
		if err != nil {
			logger.Warn("initial sheet fetch failed", zap.String("url", cfg.Source.SheetURL), zap.Error(err))
		}
	}

	if cfg.Source.WatchFile != "" {
		w, err := watch.New(cfg.Source.WatchFile, cfg.GetDebounce(), loadFile, logger.Named("watch"))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	srv := server.New(cfg, st, fetcher, logger.Named("http"))
	return srv.Run(ctx)
}
