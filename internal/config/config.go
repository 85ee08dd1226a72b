package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ManyChatBaseURL string
	ManyChatToken   string

	KajabiTokenURL     string
	KajabiClientID     string
	KajabiClientSecret string

	CalendlyBaseURL string
	CalendlyToken   string

	MetaBaseURL     string
	MetaPixelID     string
	MetaAccessToken string

	GABaseURL       string
	GAPropertyID    string
	GAAccessToken   string
	GACacheTTL      time.Duration
	ZoomSecretToken string
}

func New() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] skipping .env: %v", err)
	}

	return Config{
		AppName:     getenv("APP_NAME", "salesdesk"),
		AppVersion:  getenv("APP_VERSION", "dev"),
		Environment: getenv("APP_ENV", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		OTLPEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		DBType:            getenv("DB_TYPE", "sqlite"),
		DBHost:            getenv("DB_HOST", "localhost"),
		DBPort:            getenv("DB_PORT", "5432"),
		DBName:            getenv("DB_NAME", "salesdesk"),
		DBUser:            getenv("DB_USER", "salesdesk"),
		DBPassword:        getenv("DB_PASSWORD", ""),
		DBSSLMode:         getenv("DB_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DB_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DB_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DB_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DB_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		ManyChatBaseURL: getenv("MANYCHAT_BASE_URL", "https://api.manychat.com"),
		ManyChatToken:   getenv("MANYCHAT_TOKEN", ""),

		KajabiTokenURL:     getenv("KAJABI_TOKEN_URL", "https://api.kajabi.com/v2/oauth/token"),
		KajabiClientID:     getenv("KAJABI_CLIENT_ID", ""),
		KajabiClientSecret: getenv("KAJABI_CLIENT_SECRET", ""),

		CalendlyBaseURL: getenv("CALENDLY_BASE_URL", "https://api.calendly.com"),
		CalendlyToken:   getenv("CALENDLY_TOKEN", ""),

		MetaBaseURL:     getenv("META_BASE_URL", "https://graph.facebook.com/v18.0"),
		MetaPixelID:     getenv("META_PIXEL_ID", ""),
		MetaAccessToken: getenv("META_ACCESS_TOKEN", ""),

		GABaseURL:       getenv("GA_BASE_URL", "https://analyticsdata.googleapis.com/v1beta"),
		GAPropertyID:    getenv("GA_PROPERTY_ID", ""),
		GAAccessToken:   getenv("GA_ACCESS_TOKEN", ""),
		GACacheTTL:      time.Duration(getenvInt("GA_CACHE_TTL_SECONDS", 300)) * time.Second,
		ZoomSecretToken: getenv("ZOOM_SECRET_TOKEN", ""),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

var Module = fx.Module("config",
	fx.Provide(New),
	fx.Provide(NewSalesConfigHolder),
)
