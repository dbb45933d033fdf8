package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers understood by STORAGE_DRIVER.
const (
	StorageDynamo   = "dynamo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Delivery providers understood by DELIVERY_PROVIDER.
const (
	DeliveryAuto = "auto"
	DeliverySMTP = "smtp"
	DeliverySNS  = "sns"
	DeliveryDev  = "dev"
)

const envProduction = "production"

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	AllowedOrigins []string // CORS allowed origins
	TrustProxy     bool     // honor X-Forwarded-For / X-Real-Ip for the client address

	StorageDriver  string
	DatabaseURL    string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	OTPLength          int
	OTPExpiry          time.Duration
	OTPMaxAttempts     int
	OTPBypass          bool          // skips digest comparison; refused in production
	OTPCleanupInterval time.Duration // 0 disables the in-process sweep

	JWTSecret    string
	JWTAlgorithm string
	JWTExpiry    time.Duration

	DeliveryProvider string
	DeliveryTimeout  time.Duration
	SMTPHost         string
	SMTPPort         string
	SMTPFrom         string
	SMTPFromName     string
	SMTPUsername     string
	SMTPPassword     string
	SNSRegion        string
	SNSTopicARN      string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users       string
	UserDetails string
	OTPCodes    string
}

// Load reads all configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustProxy:     getEnvBool("TRUST_PROXY_HEADERS", false),

		StorageDriver:  getEnv("STORAGE_DRIVER", StorageDynamo),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:       getEnv("DYNAMO_TABLE_USERS", "users"),
			UserDetails: getEnv("DYNAMO_TABLE_USER_DETAILS", "user_details"),
			OTPCodes:    getEnv("DYNAMO_TABLE_OTP_CODES", "otp_codes"),
		},

		OTPLength:          getEnvInt("OTP_LENGTH", 6),
		OTPExpiry:          time.Duration(getEnvInt("OTP_EXPIRE_MINUTES", 10)) * time.Minute,
		OTPMaxAttempts:     getEnvInt("OTP_MAX_ATTEMPTS", 5),
		OTPBypass:          getEnvBool("OTP_BYPASS", false),
		OTPCleanupInterval: getEnvDuration("OTP_CLEANUP_INTERVAL", 0),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTAlgorithm: strings.ToUpper(getEnv("JWT_ALGORITHM", "HS512")),
		JWTExpiry:    time.Duration(getEnvInt("JWT_EXPIRE_MINUTES", 720)) * time.Minute,

		DeliveryProvider: strings.ToLower(getEnv("DELIVERY_PROVIDER", DeliveryAuto)),
		DeliveryTimeout:  getEnvDuration("DELIVERY_TIMEOUT", 15*time.Second),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPFrom:         getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPFromName:     getEnv("SMTP_FROM_NAME", "Astro Server"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN:      getEnv("SNS_TOPIC_ARN", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and refuses unsafe combinations.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("config: unsupported JWT_ALGORITHM %q", c.JWTAlgorithm)
	}
	if c.JWTExpiry <= 0 {
		return errors.New("config: JWT_EXPIRE_MINUTES must be positive")
	}
	if c.OTPLength < 4 || c.OTPLength > 10 {
		return errors.New("config: OTP_LENGTH must be between 4 and 10")
	}
	if c.OTPExpiry <= 0 {
		return errors.New("config: OTP_EXPIRE_MINUTES must be positive")
	}
	if c.OTPMaxAttempts <= 0 {
		return errors.New("config: OTP_MAX_ATTEMPTS must be positive")
	}
	if c.DeliveryTimeout <= 0 {
		return errors.New("config: DELIVERY_TIMEOUT must be positive")
	}
	switch c.StorageDriver {
	case StorageDynamo, StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL must be set when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.DeliveryProvider {
	case DeliveryAuto, DeliverySMTP, DeliverySNS, DeliveryDev:
	default:
		return fmt.Errorf("config: unknown DELIVERY_PROVIDER %q", c.DeliveryProvider)
	}
	if c.IsProduction() {
		if c.OTPBypass {
			return errors.New("config: OTP_BYPASS must not be true when APP_ENV=production")
		}
		if c.DeliveryProvider == DeliveryDev {
			return errors.New("config: DELIVERY_PROVIDER=dev must not be used when APP_ENV=production")
		}
		if c.StorageDriver == StorageMemory {
			return errors.New("config: STORAGE_DRIVER=memory must not be used when APP_ENV=production")
		}
	}
	return nil
}

// IsProduction reports whether APP_ENV names the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, envProduction)
}

// OTPExpiryMinutes is the code TTL as whole minutes, as shown to recipients.
func (c *Config) OTPExpiryMinutes() int {
	return int(c.OTPExpiry / time.Minute)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "5m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
