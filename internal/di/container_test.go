package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kinship-backend/internal/config"
)

func TestNewContainer(t *testing.T) {
	c, err := NewContainer()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, c.Shutdown())
	}()

	assert.NotNil(t, c.Config)
	assert.NotNil(t, c.Logger)
	assert.NotNil(t, c.Store)
	assert.NotNil(t, c.Service)
	assert.NotNil(t, c.JWTService)
	assert.NotNil(t, c.Handler)
	assert.NotNil(t, c.Router)
	assert.NotNil(t, c.Watcher)
}

func TestProvideCollector(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, provideCollector(cfg), "metrics disabled yields a nil no-op collector")

	cfg.Features.EnableMetrics = true
	assert.NotNil(t, provideCollector(cfg))
}

func TestProvideStoreDefaultsToMemory(t *testing.T) {
	cfg := &config.Config{}

	store, err := provideStore(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, store)
}
