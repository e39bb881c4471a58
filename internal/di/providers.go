// Provider functions shared by the manual container and the Wire
// injector. Wire generates against these directly; container.go calls
// them in its own initialization order.
package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kinship-backend/internal/config"
	"kinship-backend/internal/handlers"
	"kinship-backend/internal/layout"
	"kinship-backend/internal/observability"
	"kinship-backend/internal/repository"
	"kinship-backend/pkg/api"
	"kinship-backend/pkg/auth"
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == config.Production {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Logging.Format == "json" {
		zapCfg.Encoding = "json"
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// provideCollector returns nil when metrics are disabled; consumers
// treat a nil collector as a no-op.
func provideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.Features.EnableMetrics {
		return nil
	}
	return observability.NewCollector("kinship")
}

func provideStore(cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.Storage.Provider {
	case "dynamodb":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
			awsConfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := awsDynamodb.NewFromConfig(awsCfg)
		store := repository.NewDynamoStore(client, cfg.Storage.TableName)
		return repository.NewResilientStore(store, logger), nil
	default:
		return repository.NewMemoryStore(), nil
	}
}

func provideLayoutConfig(cfg *config.Config) layout.Config {
	layoutCfg := layout.DefaultConfig()
	layoutCfg.Width = cfg.Layout.Width
	layoutCfg.Height = cfg.Layout.Height
	layoutCfg.Iterations = cfg.Layout.Iterations
	layoutCfg.Seed = cfg.Layout.Seed
	return layoutCfg
}

func provideJWTService(cfg *config.Config) *auth.JWTService {
	return auth.NewJWTService(
		cfg.Security.JWTSecret,
		cfg.Security.JWTIssuer,
		cfg.Security.JWTExpiry,
	)
}

func provideWatcher(cfg *config.Config, logger *zap.Logger) (*config.Watcher, error) {
	return config.NewWatcher(cfg, logger)
}

func provideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	collector *observability.Collector,
	jwtService *auth.JWTService,
	handler *handlers.GraphHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(handlers.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	// Authenticated API
	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.Metrics(collector))
		r.Use(handlers.Authenticator(jwtService, logger))
		handler.RegisterRoutes(r)
	})

	return r
}
