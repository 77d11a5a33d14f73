// Command devserver runs the in-memory job-matching backend on a local port
// so the jobmatch client can be tried without the real service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobmatch/internal/backendtest"
	"github.com/jobmatch/internal/config"
	"github.com/jobmatch/pkg/jwt"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.LoadServerConfig()
	logger := config.SetupServerLogger(cfg)

	backend := backendtest.New(&logger.Logger)
	backend.JWT = jwt.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	if cfg.Seed {
		demo := backendtest.Seed(backend.Store, time.Now().UTC())
		logger.Info().
			Str("email", backendtest.DemoEmail).
			Str("password", backendtest.DemoPassword).
			Int64("oferta_id", demo.OfertaID).
			Int64("chat_id", demo.ChatID).
			Msg("Demo data loaded")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      backend,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("api", "http://localhost:"+cfg.Port+backendtest.APIPrefix).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	gracefulShutdown(server, &logger.Logger)
}

func gracefulShutdown(server *http.Server, logger *zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}

	logger.Info().Msg("Server stopped")
}
