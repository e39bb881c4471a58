//go:build !wireinject
// +build !wireinject

// Package di provides a centralized dependency injection container.
package di

import (
	"fmt"

	"kinship-backend/internal/config"
	"kinship-backend/internal/handlers"
	"kinship-backend/internal/service/graph"
)

// NewContainer creates and initializes a new dependency injection container.
func NewContainer() (*Container, error) {
	c := &Container{}
	if err := c.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return c, nil
}

// initialize builds every dependency through the shared providers, in
// the same order Wire would resolve them.
func (c *Container) initialize() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.Config = cfg

	logger, err := provideLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.Logger = logger
	c.shutdownFunctions = append(c.shutdownFunctions, func() error {
		_ = logger.Sync()
		return nil
	})

	c.Collector = provideCollector(cfg)

	store, err := provideStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	c.Store = store

	c.Service = graph.NewService(c.Store, c.Logger, c.Collector, provideLayoutConfig(cfg))
	c.JWTService = provideJWTService(cfg)
	c.Handler = handlers.NewGraphHandler(c.Service, c.Logger)
	c.Router = provideRouter(cfg, c.Logger, c.Collector, c.JWTService, c.Handler)

	watcher, err := provideWatcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize config watcher: %w", err)
	}
	c.Watcher = watcher
	c.shutdownFunctions = append(c.shutdownFunctions, func() error {
		watcher.Stop()
		return nil
	})

	return nil
}

// Shutdown releases container resources in reverse order.
func (c *Container) Shutdown() error {
	var firstErr error
	for i := len(c.shutdownFunctions) - 1; i >= 0; i-- {
		if err := c.shutdownFunctions[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
