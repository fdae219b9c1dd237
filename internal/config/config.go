package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	JWT     JWTConfig
	AI      AIConfig
	Storage StorageConfig
	Tracing TracingConfig `mapstructure:"tracing"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port string
	Mode string
	// Store selects persistence: "mongo" (default) or "memory" for local runs
	Store string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
	ServiceName       string `mapstructure:"service_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.store", "mongo")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "ieltsprep")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "dev-secret-change-me")
	v.SetDefault("jwt.expire_hours", 72)

	ai := DefaultAIConfig(ProviderGemini)
	v.SetDefault("ai.provider", ai.Provider)
	v.SetDefault("ai.timeout_ms", ai.TimeoutMS)
	v.SetDefault("ai.rate_limit", ai.RateLimit)
	v.SetDefault("ai.burst", ai.Burst)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./uploads")
	v.SetDefault("storage.minio_bucket", "ielts-media")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.collector_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", "ieltsprep-api")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
}

// LoadConfig reads config.yaml from path when present, then .env, then the
// environment. Missing files are not an error.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("IELTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "IELTS_SERVER_PORT", "PORT")
	v.BindEnv("server.mode", "IELTS_SERVER_MODE", "SERVER_MODE")
	v.BindEnv("server.store", "IELTS_SERVER_STORE", "STORE")

	// Mongo
	v.BindEnv("mongo.uri", "IELTS_MONGO_URI", "MONGO_URI")
	v.BindEnv("mongo.database", "IELTS_MONGO_DATABASE", "MONGO_DB")

	// Redis
	v.BindEnv("redis.addr", "IELTS_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("redis.password", "IELTS_REDIS_PASSWORD", "REDIS_PASSWORD")

	// JWT
	v.BindEnv("jwt.secret", "IELTS_JWT_SECRET", "JWT_SECRET")

	// AI
	v.BindEnv("ai.provider", "IELTS_AI_PROVIDER", "AI_PROVIDER")
	v.BindEnv("ai.api_key", "IELTS_AI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("ai.openai_api_key", "IELTS_AI_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("ai.base_url", "IELTS_AI_BASE_URL", "AI_BASE_URL")

	// Storage
	v.BindEnv("storage.type", "IELTS_STORAGE_TYPE", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "IELTS_STORAGE_MINIO_ENDPOINT", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "IELTS_STORAGE_MINIO_ACCESS_KEY", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "IELTS_STORAGE_MINIO_SECRET_KEY", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "IELTS_STORAGE_MINIO_BUCKET", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "IELTS_TRACING_ENABLED", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "IELTS_TRACING_COLLECTOR_ENDPOINT", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.AI.Models = mergeModels(DefaultAIConfig(cfg.AI.Provider).Models, cfg.AI.Models)
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = DefaultAIConfig(cfg.AI.Provider).BaseURL
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = strings.Split(origins, ",")
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, errors.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			if err := os.MkdirAll(cfg.Storage.LocalPath, 0755); err != nil {
				return nil, errors.Wrap(err, "create storage dir")
			}
		}
	}

	return &cfg, nil
}

func mergeModels(def, set AIModels) AIModels {
	if set.Transcribe != "" {
		def.Transcribe = set.Transcribe
	}
	if set.Writing != "" {
		def.Writing = set.Writing
	}
	if set.Extract != "" {
		def.Extract = set.Extract
	}
	return def
}
