package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Store        Store
	Auth         Auth
	Media        Media
	Redis        Redis
	Log          Log
	Tracing      Tracing
	RateLimit    RateLimit
	GeminiApiKey string
}

type Server struct {
	Port string
	Mode string // gin mode: debug, release, test
	// LoginPath is where clients send the student after the session expired.
	LoginPath      string
	AllowedOrigins []string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Store struct {
	Driver  string // postgres, remote, memory
	BaseURL string // remote item API
	Timeout time.Duration
}

type Auth struct {
	JWTSecret    string
	ServiceToken string
}

type Media struct {
	AssetsBaseURL  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool
	URLExpiry      time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type Log struct {
	Level string
	File  string
}

type Tracing struct {
	Enabled           bool
	CollectorEndpoint string
}

type RateLimit struct {
	ProgressPerMinute int
}

func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOGIN_PATH", "/login")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("STORE_TIMEOUT", "10s")
	v.SetDefault("MEDIA_URL_EXPIRY", "1h")
	v.SetDefault("REDIS_LOCK_TTL", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "logs/app.log")
	v.SetDefault("RATE_LIMIT_PROGRESS_PER_MINUTE", 120)

	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.Mode = v.GetString("SERVER_MODE")
	config.Server.LoginPath = v.GetString("LOGIN_PATH")
	config.Server.AllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SSLMode = v.GetString("DATABASE_SSLMODE")

	config.Store.Driver = strings.ToLower(v.GetString("STORE_DRIVER"))
	config.Store.BaseURL = v.GetString("STORE_BASE_URL")
	config.Store.Timeout = v.GetDuration("STORE_TIMEOUT")

	config.Auth.JWTSecret = v.GetString("JWT_SECRET")
	config.Auth.ServiceToken = v.GetString("STORE_SERVICE_TOKEN")

	config.Media.AssetsBaseURL = v.GetString("ASSETS_BASE_URL")
	config.Media.MinioEndpoint = v.GetString("MINIO_ENDPOINT")
	config.Media.MinioAccessKey = v.GetString("MINIO_ACCESS_KEY")
	config.Media.MinioSecretKey = v.GetString("MINIO_SECRET_KEY")
	config.Media.MinioBucket = v.GetString("MINIO_BUCKET")
	config.Media.MinioRegion = v.GetString("MINIO_REGION")
	config.Media.MinioUseSSL = v.GetBool("MINIO_USE_SSL")
	config.Media.URLExpiry = v.GetDuration("MEDIA_URL_EXPIRY")

	config.Redis.Addr = v.GetString("REDIS_ADDR")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.LockTTL = v.GetDuration("REDIS_LOCK_TTL")

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.File = v.GetString("LOG_FILE")

	config.Tracing.Enabled = v.GetBool("TRACING_ENABLED")
	config.Tracing.CollectorEndpoint = v.GetString("TRACING_COLLECTOR_ENDPOINT")

	config.RateLimit.ProgressPerMinute = v.GetInt("RATE_LIMIT_PROGRESS_PER_MINUTE")

	config.GeminiApiKey = v.GetString("GEMINI_API_KEY")

	log.Info().
		Str("port", config.Server.Port).
		Str("store_driver", config.Store.Driver).
		Bool("redis_locks", config.Redis.Addr != "").
		Bool("minio_media", config.Media.MinioEndpoint != "").
		Bool("tracing", config.Tracing.Enabled).
		Msg("Config loaded")
	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
