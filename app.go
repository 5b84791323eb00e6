package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"pto-advisor/api"
	"pto-advisor/assistant"
	"pto-advisor/config"
	"pto-advisor/fixtures"
	"pto-advisor/metrics"
	"pto-advisor/observability"
	"pto-advisor/store"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options are the persistent flags shared by every command.
type options struct {
	fixtures    string
	requests    string
	logLevel    string
	metricsAddr string
	pushURL     string
	wait        bool
}

// apply lets explicit flags win over environment configuration.
func (o options) apply(cfg *config.Config) {
	if o.fixtures != "" {
		cfg.Data.FixturesPath = o.fixtures
	}
	if o.requests != "" {
		cfg.Data.RequestsCSVPath = o.requests
	}
	if o.logLevel != "" {
		cfg.Logger.Level = o.logLevel
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if o.pushURL != "" {
		cfg.Metrics.PushURL = o.pushURL
	}
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	out    io.Writer
}

func newApp(opts options, out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts.apply(cfg)

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	ds, err := fixtures.Load(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}
	metrics.ResetAdvisorGauges()
	logger.Info("fixtures loaded",
		zap.Int("employees", len(ds.Employees)),
		zap.Int("requests", len(ds.Requests)),
		zap.Int("tasks", len(ds.Tasks)),
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store.New(ds, store.WithLogger(logger)),
		out:    out,
	}, nil
}

// withApp builds the app, runs fn, then pushes or holds metrics as requested.
func withApp(cmd *cobra.Command, opts *options, fn func(a *app) error) error {
	a, err := newApp(*opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	a.startMetricsServer()
	if err := fn(a); err != nil {
		return err
	}
	a.finish(opts.wait)
	return nil
}

func (a *app) startMetricsServer() {
	addr := a.cfg.Metrics.Addr
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		a.logger.Info("metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("metrics server error", zap.Error(err))
		}
	}()
}

func (a *app) finish(wait bool) {
	if url := a.cfg.Metrics.PushURL; url != "" {
		if err := push.New(url, a.cfg.Metrics.JobName).Gatherer(metrics.Registry).Push(); err != nil {
			a.logger.Error("push metrics failed", zap.String("url", url), zap.Error(err))
		} else {
			a.logger.Info("metrics pushed", zap.String("url", url))
		}
	}

	if wait && a.cfg.Metrics.Addr != "" {
		a.logger.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
	} else if a.cfg.Metrics.Addr != "" && a.cfg.Metrics.PushURL == "" {
		time.Sleep(100 * time.Millisecond)
	}
}

func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the advisor over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if addr != "" {
					a.cfg.HTTP.Addr = addr
				}
				return a.serve(cmd.Context())
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to PTO_HTTP_ADDR or :8080)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if a.cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	api.InitValidator()

	router := assistant.NewRouter(a.store.Snapshot, assistant.WithLogger(a.logger))
	handler := api.NewHandler(a.store, router, a.cfg.Reviewer, a.logger)
	engine := api.NewRouter(handler, a.logger, a.cfg.HTTP.RequestTimeout())

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
