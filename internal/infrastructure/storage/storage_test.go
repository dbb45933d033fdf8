package storage

import (
	"context"
	"testing"

	"github.com/astro-auth-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	repos, closeFn, err := Open(context.Background(), &config.Config{StorageDriver: config.StorageMemory})
	require.NoError(t, err)
	defer closeFn()

	assert.NotNil(t, repos.OTP)
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Details)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{StorageDriver: "cassandra"})
	assert.Error(t, err)
}

func TestOpen_PostgresBadURL(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{
		StorageDriver: config.StoragePostgres,
		DatabaseURL:   "postgres://%zz",
	})
	assert.Error(t, err)
}
