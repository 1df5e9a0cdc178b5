package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/trax/internal/repositories"
	"github.com/desertthunder/trax/internal/server"
	"github.com/desertthunder/trax/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the HTTP gateway and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify app credentials must be configured", shared.ErrMissingCredentials)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	users := repositories.NewUserRepository(db)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger), server.CORS())
	router.Handler(&server.RootHandler{})
	router.Handler(server.NewAuthHandler(r.spotify, users, r.logger))
	router.Handler(server.NewMusicHandler(r.spotify, r.logger))

	if r.catalog != nil {
		protected := server.BearerAuth(users, r.logger)
		profile := server.NewProfileHandler(r.catalog, r.logger)
		for _, route := range profile.Routes() {
			router.Handle(http.MethodGet, route, protected(profile))
		}
	} else {
		r.logger.Warn("catalog credentials not configured, /me disabled")
	}

	httpServer := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("server up on %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return nil
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP gateway",
		Action: r.Serve,
	}
}
