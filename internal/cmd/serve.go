package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorconverter/assets"
	"github.com/MeKo-Tech/colorconverter/internal/server"
	"github.com/MeKo-Tech/colorconverter/internal/swatch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the converter API, swatch PNGs and browser UI",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("web-dir", "", "Serve the browser UI from this directory instead of the embedded copy")
	serveCmd.Flags().String("swatch-dir", "./swatches", "Directory where rendered swatches are cached")

	serveCmd.Flags().Bool("disable-cache", false, "Always re-render swatches (still writes to disk)")
	serveCmd.Flags().Int("max-concurrent-renders", runtime.NumCPU(), "Max concurrent swatch renders (default: number of CPUs)")
	serveCmd.Flags().Duration("render-timeout", 30*time.Second, "Timeout per swatch render")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served swatches")

	serveCmd.Flags().Int("swatch-size", swatch.DefaultOptions().Size, "Base swatch size in pixels (@2x requests render double)")
	serveCmd.Flags().Float64("grain", swatch.DefaultOptions().Grain, "Watercolor grain strength (0..1)")
	serveCmd.Flags().Bool("wash", false, "Render swatches as watercolor blobs on paper")
	serveCmd.Flags().Int64("seed", swatch.DefaultOptions().Seed, "Deterministic seed for the grain noise")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.web_dir", "web-dir")
	mustBind("serve.swatch_dir", "swatch-dir")
	mustBind("serve.disable_cache", "disable-cache")
	mustBind("serve.max_concurrent_renders", "max-concurrent-renders")
	mustBind("serve.render_timeout", "render-timeout")
	mustBind("serve.cache_control", "cache-control")
	mustBind("serve.swatch_size", "swatch-size")
	mustBind("serve.grain", "grain")
	mustBind("serve.wash", "wash")
	mustBind("serve.seed", "seed")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	webDir := viper.GetString("serve.web_dir")
	swatchDir := viper.GetString("serve.swatch_dir")
	disableCache := viper.GetBool("serve.disable_cache")
	maxConc := viper.GetInt("serve.max_concurrent_renders")
	renderTimeout := viper.GetDuration("serve.render_timeout")
	cacheControl := viper.GetString("serve.cache_control")
	swatchSize := viper.GetInt("serve.swatch_size")
	grain := viper.GetFloat64("serve.grain")
	seed := viper.GetInt64("serve.seed")

	store, err := openPalette()
	if err != nil {
		return err
	}
	defer store.Close()

	swatches := server.NewOnDemandSwatches(server.OnDemandSwatchesConfig{
		SwatchDir:            swatchDir,
		CacheControl:         cacheControl,
		BaseSize:             swatchSize,
		Seed:                 seed,
		Grain:                grain,
		Wash:                 viper.GetBool("serve.wash"),
		MaxConcurrentRenders: maxConc,
		RenderTimeout:        renderTimeout,
		DisableCache:         disableCache,
	}, logger)

	handler := server.NewHandler(server.Config{
		Web:      assets.Web(),
		WebDir:   webDir,
		API:      server.NewAPI(store, logger),
		Swatches: swatches,
	})

	logger.Info("server listening",
		"addr", addr,
		"swatch_dir", swatchDir,
		"web_dir", webDir,
		"palette_db", store.Path(),
		"max_concurrent_renders", maxConc,
	)

	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received interrupt signal, shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
