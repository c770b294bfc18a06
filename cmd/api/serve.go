package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/cache"
	"storefront/internal/handlers"
	"storefront/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.ensureIndexes(ctx); err != nil {
				return err
			}

			store, err := cache.New(a.cfg.CacheURL, a.cfg.CacheTTL)
			if err != nil {
				return err
			}
			defer store.Close()

			checks := map[string]handlers.Pinger{"mongodb": a.mongo}
			if a.cfg.CacheURL != "" {
				checks["cache"] = store
			}

			router := routes.Setup(routes.Handlers{
				Products:   handlers.NewProductHandler(a.products, a.reviews, store, a.log),
				Categories: handlers.NewCategoryHandler(a.categories, a.log),
				Orders:     handlers.NewOrderHandler(a.orders, a.log),
				Posts:      handlers.NewPostHandler(a.posts, a.comments, store, a.log),
				Analytics:  handlers.NewAnalyticsHandler(a.engine, a.log),
				Health:     handlers.NewHealthHandler(checks),
			}, a.log, routes.Options{
				Production:     a.cfg.IsProduction(),
				AllowedOrigins: a.cfg.CORSAllowedOrigins,
			})

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("server running", "port", a.cfg.Port, "environment", a.cfg.Environment)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
