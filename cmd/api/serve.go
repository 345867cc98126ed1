package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"

	"happydash.dev/internal/app"
	"happydash.dev/internal/appconf"
	"happydash.dev/internal/restapi"
	"happydash.dev/internal/webui"
)

type serveOptions struct {
	port      int
	env       string
	apiKeys   string
	rateLimit int
	watch     bool
	cacheSize int
}

func newServeCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := global.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts.apply(cmd, &config)

			logger, err := newLogger(cmd.ErrOrStderr(), config)
			if err != nil {
				return err
			}

			application, err := newApplication(config, logger)
			if err != nil {
				logger.Error("startup failed", "component", "startup", "error", err)
				return err
			}
			defer application.Manager.Shutdown()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, application)
		},
	}

	opts.bindFlags(cmd)
	return cmd
}

func (opts *serveOptions) bindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&opts.port, "port", 4000, "API server port")
	flags.StringVar(&opts.env, "env", "development", "Environment (development|test|production)")
	flags.StringVar(&opts.apiKeys, "api-keys", "", "Comma separated API keys; empty leaves the dashboard open")
	flags.IntVar(&opts.rateLimit, "rate-limit", 100, "Requests per second per client; 0 disables limiting")
	flags.BoolVar(&opts.watch, "watch", false, "Reload the dataset when the CSV changes")
	flags.IntVar(&opts.cacheSize, "cache-size", 256, "Number of views kept in the cache; 0 disables caching")
}

// apply overrides config with the flags that were set on the command line.
func (opts *serveOptions) apply(cmd *cobra.Command, config *appconf.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		config.Port = opts.port
	}
	if flags.Changed("env") {
		config.Env = appconf.EnvFlagToEnvironment(opts.env)
	}
	if flags.Changed("api-keys") {
		config.ApiKeys = appconf.ParseAPIKeys(opts.apiKeys)
	}
	if flags.Changed("rate-limit") {
		config.RateLimit = opts.rateLimit
	}
	if flags.Changed("watch") {
		config.Watch = opts.watch
	}
	if flags.Changed("cache-size") {
		config.CacheSize = opts.cacheSize
	}
}

// newHandler builds the router with the API and dashboard routes behind the shared middleware.
func newHandler(application *app.Application) (http.Handler, error) {
	api := restapi.NewRestAPI(application)
	ui, err := webui.NewWebUI(application)
	if err != nil {
		return nil, err
	}

	router := httprouter.New()
	api.SetRoutes(router)
	webui.SetWebUIRoutes(router, ui)
	return api.Wrap(router), nil
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, application *app.Application) error {
	handler, err := newHandler(application)
	if err != nil {
		return err
	}

	logger := application.Logger
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", srv.Addr,
			"env", application.Config.Env.String(),
			"records", application.Manager.Dataset().Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
