package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careergap/internal/bootstrap"
	"careergap/internal/shared/config"
	"careergap/internal/shared/server"
	"careergap/internal/shared/telemetry"
)

const (
	shutdownTimeout       = 15 * time.Second
	housekeepingInterval  = 10 * time.Minute
	sessionPurgeInterval  = time.Hour
	rateBucketIdle        = 30 * time.Minute
	readHeaderTimeoutSecs = 10
)

func main() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go housekeeping(ctx, app)

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: readHeaderTimeoutSecs * time.Second,
	}

	go func() {
		telemetry.Info("api.listening", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("api.shutdown_failed", map[string]any{"error": err.Error()})
	}
	telemetry.Info("api.stopped", nil)
}

// housekeeping sweeps idle rate-limit buckets and, hourly, expired sessions.
func housekeeping(ctx context.Context, app *bootstrap.App) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()
	lastPurge := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			app.Limiter.Sweep(rateBucketIdle)
			if now.Sub(lastPurge) < sessionPurgeInterval {
				continue
			}
			lastPurge = now
			n, err := app.UsersService.PurgeExpiredSessions(ctx)
			if err != nil {
				telemetry.Warn("sessions.purge_failed", map[string]any{"error": err.Error()})
				continue
			}
			if n > 0 {
				telemetry.Info("sessions.purged", map[string]any{"count": n})
			}
		}
	}
}
