package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Mailjet   MailjetConfig
	Redis     RedisConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Orders    OrdersConfig
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type AppConfig struct {
	Name                    string
	Version                 string
	Environment             string
	AppDeploymentUrl        string
	AppEmailVerificationKey string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// Enabled reports whether a redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.RedisHost != ""
}

type StorageConfig struct {
	Driver        string
	LocalPath     string
	PublicBaseURL string
	MaxUploadMB   int64
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3UseSSL      bool
}

type RateLimitConfig struct {
	Limit  int64
	Period time.Duration
}

type OrdersConfig struct {
	StrictTransitions bool
	IdempotencyTTL    time.Duration
}

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	redisPool, err := strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10"))
	if err != nil {
		return nil, errors.New("invalid redis pool size")
	}

	jwtTTL, err := parseDuration("JWT_TTL", "24h")
	if err != nil {
		return nil, err
	}
	idempotencyTTL, err := parseDuration("IDEMPOTENCY_TTL", "24h")
	if err != nil {
		return nil, err
	}
	ratePeriod, err := parseDuration("RATE_LIMIT_PERIOD", "1m")
	if err != nil {
		return nil, err
	}
	rateLimit, err := strconv.ParseInt(getEnv("RATE_LIMIT_LIMIT", "20"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid rate limit")
	}
	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "10"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, errors.New("invalid max upload size")
	}

	port := getEnv("PORT", "8080")

	cfg := &Config{
		App: AppConfig{
			Name:                    getEnv("APP_NAME", "MultiMart API"),
			Version:                 getEnv("APP_VERSION", "1.0.0"),
			Environment:             getEnv("APP_ENV", EnvDevelopment),
			AppDeploymentUrl:        getEnv("APP_DEPLOYMENT_URL", "http://localhost:"+port),
			AppEmailVerificationKey: getEnv("APP_EMAIL_VERIFICATION_KEY", ""),
		},
		Server: ServerConfig{
			Port:           port,
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "multimart"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       jwtTTL,
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", "https://api.mailjet.com"),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", "MultiMart"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			RedisPoolSize: redisPool,
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", StorageDriverLocal),
			LocalPath:     getEnv("STORAGE_LOCAL_PATH", "./storage/uploads"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:"+port+"/uploads"),
			MaxUploadMB:   maxUpload,
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3UseSSL:      getEnv("S3_USE_SSL", "true") == "true",
		},
		RateLimit: RateLimitConfig{
			Limit:  rateLimit,
			Period: ratePeriod,
		},
		Orders: OrdersConfig{
			StrictTransitions: getEnv("ORDER_STRICT_TRANSITIONS", "false") == "true",
			IdempotencyTTL:    idempotencyTTL,
		},
	}

	if s3URL := getEnv("S3_PUBLIC_BASE_URL", ""); s3URL != "" && cfg.Storage.Driver == StorageDriverS3 {
		cfg.Storage.PublicBaseURL = s3URL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Environment == EnvTest {
		return nil
	}

	if c.JWT.SecretKey == "" {
		return errors.New("missing jwt secret")
	}

	if c.Database.Password == "" {
		return errors.New("missing database password")
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if c.Storage.S3Endpoint == "" || c.Storage.S3Bucket == "" {
			return errors.New("missing s3 endpoint or bucket")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func parseDuration(key, defaultVal string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultVal))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ToLower(key), err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
