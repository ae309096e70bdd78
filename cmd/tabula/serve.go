package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/tabula"
	httpAdapter "github.com/aretw0/tabula/pkg/adapters/http"
	"github.com/aretw0/tabula/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Long: `Loads the catalog and exposes it as a read-only JSON API. With --watch the
source is watched and every change builds a new catalog; a failed reload keeps
serving the previous one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Server.Port, _ = flags.GetInt("port")
		}
		if flags.Changed("watch") {
			cfg.Server.Watch, _ = flags.GetBool("watch")
		}
		if flags.Changed("metrics") {
			cfg.Server.Metrics, _ = flags.GetBool("metrics")
		}

		logger := newLogger(cfg)
		ctx := cmd.Context()

		src, closeSrc, err := openSource(cfg)
		if err != nil {
			return err
		}
		defer closeSrc()

		opts, err := loadOptions(cfg, logger)
		if err != nil {
			return err
		}
		var serverOpts []httpAdapter.Option
		var metrics *observability.Metrics
		if cfg.Server.Metrics {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics = observability.NewMetrics(reg)
			opts = append(opts, tabula.WithHooks(metrics.Hooks()))
			serverOpts = append(serverOpts, httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}
		serverOpts = append(serverOpts, httpAdapter.WithLogger(logger))

		reloader, err := tabula.NewReloader(ctx, src, opts...)
		if err != nil {
			return err
		}
		api := httpAdapter.NewServer(reloader, serverOpts...)
		reloader.OnChange(api.Notify)
		if metrics != nil {
			metrics.ObserveReferences(reloader.Current().References)
			reloader.OnChange(func(res *tabula.Result) {
				metrics.ObserveReload(nil)
				metrics.ObserveReferences(res.References)
			})
			reloader.OnFailure(metrics.ObserveReload)
		}

		if cfg.Server.Watch {
			go func() {
				if err := reloader.Watch(ctx); err != nil {
					logger.Error("watch stopped", "error", err)
				}
			}()
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting tabula server", "address", srv.Addr, "source", cfg.Source.Type,
				"mode", cfg.Mode, "watch", cfg.Server.Watch, "tables", reloader.Current().Catalog.Len())
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutting down")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			logger.Info("tabula server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Bool("watch", false, "Reload the catalog when the source changes")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().Bool("strict-references", false, "Refuse catalogs with dangling references")
}
