package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/edit"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/replicate"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !cfg.HasAuthCredentials() {
		logger.Warn().Msg("USER_NAME or PASSWORD not set; all requests will be rejected")
	}
	if !cfg.HasProviderToken() {
		logger.Warn().Msg("REPLICATE_API_TOKEN not set; generate requests will answer 503")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
		defer resolver.Close()
	}

	provider := replicate.NewClient(replicate.Options{
		APIToken:     cfg.ReplicateAPIToken,
		BaseURL:      cfg.ReplicateBaseURL,
		PollInterval: cfg.PollInterval,
		Logger:       &logger,
	})
	svc := edit.NewService(edit.Options{
		Client:          provider,
		DefaultModel:    cfg.DefaultModel,
		ImageInputMode:  cfg.ImageInputMode,
		WaitCeiling:     cfg.GenerateTimeout,
		MaxPromptLength: cfg.MaxPromptLength,
		MaxImageBytes:   cfg.MaxFileSize,
		Logger:          &logger,
	})

	app := handlers.NewApp(cfg, &logger, svc, provider)
	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
