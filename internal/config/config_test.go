package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.OTPLength)
	assert.Equal(t, 10*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, 10, cfg.OTPExpiryMinutes())
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.False(t, cfg.OTPBypass)
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, 720*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, DeliveryAuto, cfg.DeliveryProvider)
	assert.Equal(t, 15*time.Second, cfg.DeliveryTimeout)
	assert.Equal(t, StorageDynamo, cfg.StorageDriver)
	assert.Equal(t, time.Duration(0), cfg.OTPCleanupInterval)
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OTP_LENGTH", "8")
	t.Setenv("OTP_EXPIRE_MINUTES", "3")
	t.Setenv("OTP_MAX_ATTEMPTS", "2")
	t.Setenv("JWT_ALGORITHM", "hs256")
	t.Setenv("OTP_CLEANUP_INTERVAL", "5m")
	t.Setenv("DELIVERY_PROVIDER", "SMTP")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.OTPLength)
	assert.Equal(t, 3*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, 2, cfg.OTPMaxAttempts)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 5*time.Minute, cfg.OTPCleanupInterval)
	assert.Equal(t, DeliverySMTP, cfg.DeliveryProvider)
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OTP_MAX_ATTEMPTS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
}

func TestValidate_RejectsUnsafeProductionSettings(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppEnv:           "production",
			JWTSecret:        "x",
			JWTAlgorithm:     "HS512",
			JWTExpiry:        time.Hour,
			OTPLength:        6,
			OTPExpiry:        10 * time.Minute,
			OTPMaxAttempts:   5,
			DeliveryTimeout:  time.Second,
			StorageDriver:    StorageDynamo,
			DeliveryProvider: DeliveryAuto,
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.OTPBypass = true
	assert.ErrorContains(t, c.Validate(), "OTP_BYPASS")

	c = base()
	c.DeliveryProvider = DeliveryDev
	assert.ErrorContains(t, c.Validate(), "DELIVERY_PROVIDER")

	c = base()
	c.StorageDriver = StorageMemory
	assert.ErrorContains(t, c.Validate(), "STORAGE_DRIVER")
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"algorithm":  func(c *Config) { c.JWTAlgorithm = "RS256" },
		"length":     func(c *Config) { c.OTPLength = 2 },
		"attempts":   func(c *Config) { c.OTPMaxAttempts = 0 },
		"storage":    func(c *Config) { c.StorageDriver = "cassandra" },
		"postgres":   func(c *Config) { c.StorageDriver = StoragePostgres },
		"delivery":   func(c *Config) { c.DeliveryProvider = "pigeon" },
		"expiry":     func(c *Config) { c.OTPExpiry = 0 },
		"token ttl":  func(c *Config) { c.JWTExpiry = 0 },
		"send limit": func(c *Config) { c.DeliveryTimeout = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := &Config{
				AppEnv:           "development",
				JWTSecret:        "x",
				JWTAlgorithm:     "HS512",
				JWTExpiry:        time.Hour,
				OTPLength:        6,
				OTPExpiry:        10 * time.Minute,
				OTPMaxAttempts:   5,
				DeliveryTimeout:  time.Second,
				StorageDriver:    StorageDynamo,
				DeliveryProvider: DeliveryAuto,
			}
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
