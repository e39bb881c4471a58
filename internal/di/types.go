// Container type shared between Wire generation and manual initialization.
package di

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kinship-backend/internal/config"
	"kinship-backend/internal/handlers"
	"kinship-backend/internal/observability"
	"kinship-backend/internal/repository"
	"kinship-backend/internal/service/graph"
	"kinship-backend/pkg/auth"
)

// Container wires the application together.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Collector  *observability.Collector
	Store      repository.Store
	Service    graph.Service
	JWTService *auth.JWTService
	Handler    *handlers.GraphHandler
	Router     *chi.Mux
	Watcher    *config.Watcher

	shutdownFunctions []func() error
}
