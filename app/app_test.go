package app

import (
	"context"
	"testing"
	"time"

	"Gin_postgres_redis_line_bot/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := New(config.Config{Store: config.StoreMemory, Location: time.UTC, WebOrigin: "http://localhost"})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Nil(t, a.RDB)
	assert.Nil(t, a.Dedupe)

	a.Bootstrap(context.Background())
	ok, err := a.Store.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNew_UnknownStore(t *testing.T) {
	_, err := New(config.Config{Store: "sheets", Location: time.UTC})
	assert.ErrorContains(t, err, "unknown store")
}
