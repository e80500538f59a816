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

	"tryon-gateway/internal/application/usecases"
	"tryon-gateway/internal/config"
	"tryon-gateway/internal/domain/repositories"
	domainservices "tryon-gateway/internal/domain/services"
	"tryon-gateway/internal/domain/valueobjects"
	"tryon-gateway/internal/infrastructure/api"
	"tryon-gateway/internal/infrastructure/external"
	"tryon-gateway/internal/infrastructure/logging"
	"tryon-gateway/internal/infrastructure/metrics"
	infraservices "tryon-gateway/internal/infrastructure/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.AppEnv, cfg.LogLevel)

	params, err := cfg.GenerationParameters()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid generation parameters")
	}

	// インフラ層を初期化
	upstreamClient, err := newUpstreamClient(cfg, params)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create upstream client")
	}

	collector := metrics.NewCollector()
	upstream := metrics.InstrumentUpstream(upstreamClient, collector)
	defer upstream.Close()

	// ドメイン層を初期化
	tryOnDomainService := domainservices.NewTryOnDomainService(upstream)

	// アプリケーション層を初期化
	tryOnUseCase := usecases.NewTryOnUseCase(tryOnDomainService, upstream.Model(), collector)

	// API層を初期化
	handler := api.NewGatewayHandler(tryOnUseCase)
	router := api.NewRouter(handler, collector.Handler(), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.UpstreamBackend).
			Str("model", upstream.Model()).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newUpstreamClient(cfg *config.Config, params *valueobjects.GenerationParameters) (repositories.UpstreamClient, error) {
	if cfg.UpstreamBackend == config.BackendGemini {
		pool := infraservices.NewGenAIClientPool(&repositories.AIClientConfig{
			ProjectID: cfg.ProjectID,
			Location:  cfg.Location,
			APIKey:    cfg.GeminiAPIKey,
			BaseURL:   cfg.GeminiBaseURL,
		})
		return external.NewGeminiAIService(pool, params.Model(), params), nil
	}

	return external.NewChatCompletionService(external.ChatCompletionOptions{
		Endpoint:    cfg.UpstreamURL,
		Parameters:  params,
		Credentials: credentialsFor(cfg),
		Timeout:     cfg.UpstreamTimeout,
	})
}

func credentialsFor(cfg *config.Config) external.CredentialSource {
	switch cfg.UpstreamAuth {
	case config.AuthAPIKey:
		return external.StaticToken(cfg.UpstreamAPIKey)
	case config.AuthADC:
		return external.NewADCCredentials()
	default:
		return external.NoCredentials()
	}
}
