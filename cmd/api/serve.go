package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/AbhignaKuchukulla/Issueflow/internal/api/http"
	"github.com/AbhignaKuchukulla/Issueflow/internal/api/http/handlers"
	"github.com/AbhignaKuchukulla/Issueflow/internal/auth"
	"github.com/AbhignaKuchukulla/Issueflow/internal/realtime"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
	"github.com/AbhignaKuchukulla/Issueflow/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and realtime listener",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, logger := rt.cfg, rt.logger

	tickets := service.NewTicketService(rt.deps)
	authService := service.NewAuthService(cfg.Auth, rt.deps)
	notifications := service.NewNotificationService(rt.deps,
		service.LogMailer{From: cfg.Notification.EmailFrom, Logger: logger}, cfg.Notification)
	mailQueue := worker.NewNotificationWorker(notifications, 0, logger)
	mailQueue.Subscribe(rt.deps.Dispatcher, service.NotificationEvents...)

	hub := realtime.NewHub(cfg.Realtime, cfg.App.AllowedOrigins, realtime.NewPresenceTracker(nil), logger, rt.metrics)
	hub.Subscribe(rt.deps.Dispatcher)

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, rt.metrics, cfg.App.RequestTimeout(), cfg.App.AllowedOrigins)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, rt.store),
		Tickets:        handlers.NewTicketsHandler(tickets),
		Links:          handlers.NewLinksHandler(service.NewLinkService(rt.deps)),
		Comments:       handlers.NewCommentsHandler(service.NewCommentService(rt.deps)),
		Filters:        handlers.NewFiltersHandler(service.NewFilterService(rt.deps)),
		Insights:       handlers.NewInsightsHandler(service.NewAnalyticsService(rt.deps), hub),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), authService, cfg.Auth.Required),
		Metrics:        rt.metrics,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	wsServer := &http.Server{
		Addr:              cfg.Realtime.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweep := worker.NewOverdueSweep(tickets, notifications, cfg.Worker.OverdueInterval(), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", rt.store.BackendName()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		logger.Info("realtime listening", zap.String("addr", wsServer.Addr))
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sweep.Run(gctx)
	})
	g.Go(func() error {
		return mailQueue.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Close()
		var errs []error
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
