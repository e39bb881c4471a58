//go:build wireinject
// +build wireinject

// Wire injector. Run `wire ./internal/di` to regenerate wire_gen.go;
// the providers live in providers.go and are shared with the manual
// container.
package di

import (
	"github.com/google/wire"

	"kinship-backend/internal/config"
	"kinship-backend/internal/handlers"
	"kinship-backend/internal/service/graph"
)

// InitializeContainer builds the container via Wire.
func InitializeContainer() (*Container, error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideCollector,
		provideStore,
		provideLayoutConfig,
		provideJWTService,
		provideWatcher,
		provideRouter,
		graph.NewService,
		handlers.NewGraphHandler,
		wire.Struct(new(Container),
			"Config", "Logger", "Collector", "Store",
			"Service", "JWTService", "Handler", "Router", "Watcher"),
	)
	return nil, nil
}
