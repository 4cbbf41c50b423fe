package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/config"
	"github.com/zhgao/banking-metadata-description-ai/pkg/domain"
	"github.com/zhgao/banking-metadata-description-ai/pkg/handlers"
	"github.com/zhgao/banking-metadata-description-ai/pkg/llm"
	"github.com/zhgao/banking-metadata-description-ai/pkg/middleware"
	"github.com/zhgao/banking-metadata-description-ai/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Log startup configuration
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Bool("local_ai", cfg.LocalAI.IsAvailable()),
		zap.Bool("remote_ai", cfg.RemoteAI.IsAvailable()),
		zap.Bool("prefer_local", cfg.Generation.PreferLocal),
		zap.Float64("confidence_threshold", cfg.Generation.ConfidenceThreshold))

	// Domain resources
	knowledge := domain.Load(cfg.Data.TermsPath, logger.Named("domain"))
	rules := services.NewRuleEngine(knowledge)

	// Services
	factory := llm.NewFactory(cfg, logger.Named("llm"))
	descriptionSvc := services.NewDescriptionService(factory, rules, knowledge, cfg.Generation, logger)
	validationSvc := services.NewValidationService(cfg.Generation.ConfidenceThreshold)
	reviewStore := services.NewReviewStore(cfg.Data.ReviewsPath, cfg.Data.DictionaryPath, logger.Named("reviews"))
	sampleStore := services.NewSampleStore(cfg.Data.SamplesPath)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger.Named("health")).RegisterRoutes(mux)
	handlers.NewDescriptionsHandler(descriptionSvc, validationSvc, logger.Named("descriptions")).RegisterRoutes(mux)
	handlers.NewReviewsHandler(reviewStore, logger.Named("reviews")).RegisterRoutes(mux)
	handlers.NewSamplesHandler(sampleStore, logger.Named("samples")).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger.Named("http"))(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting banking-metadata-description-ai",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
