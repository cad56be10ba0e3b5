package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/contactbook/internal/avatar"
	"github.com/sudo-init-do/contactbook/internal/config"
)

func TestNewAvatarStoreLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Avatar.Driver = "local"
	cfg.Avatar.PublicDir = t.TempDir()
	cfg.Avatar.PublicPath = "/avatars"

	store, err := newAvatarStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &avatar.LocalStore{}, store)
}

func TestAppRateStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{}
	cfg.Auth.RateLimit = 1
	cfg.Auth.RateWindow = time.Minute

	store := appRateStore(rdb, cfg, zerolog.Nop())
	ok, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}
