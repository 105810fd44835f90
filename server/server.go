package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ActivityAdmin/logger"
)

// Start serves the admin API on app.Config.HTTPAddr until ctx is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context, app *App) error {
	server := &http.Server{
		Addr:         app.Config.HTTPAddr,
		Handler:      NewRouter(app),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
