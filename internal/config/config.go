package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Generator backends. Selected once at startup, never per request.
const (
	GeneratorLocal = "local"
	GeneratorQonto = "qonto"
)

// Config holds application configuration.
type Config struct {
	AppName    string
	AppVersion string
	HTTPAddr   string
	LogLevel   string

	// InvoiceGenerator selects the numbering/rendering backend for
	// invoices: "local" or "qonto". Quotations always use the local
	// backend.
	InvoiceGenerator string

	QontoBaseURL      string
	QontoPollRetries  int
	QontoPollInterval int // seconds

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
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:    getenv("APP_SERVICE", "facture"),
		AppVersion: getenv("APP_VERSION", "0.1.0"),
		HTTPAddr:   getenv("HTTP_ADDR", ":8080"),
		LogLevel:   getenv("LOG_LEVEL", "info"),

		InvoiceGenerator: normalizeGenerator(getenv("INVOICE_GENERATOR", GeneratorLocal)),

		QontoBaseURL:      getenv("QONTO_BASE_URL", "https://thirdparty.qonto.com/v2"),
		QontoPollRetries:  getenvInt("QONTO_POLL_RETRIES", 10),
		QontoPollInterval: getenvInt("QONTO_POLL_INTERVAL", 2),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "facture"),
		DBUser:            getenv("DATABASE_USER", "facture"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),
	}
}

func normalizeGenerator(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case GeneratorQonto:
		return GeneratorQonto
	default:
		return GeneratorLocal
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewLayoutConfig),
)
