package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource  string // "csv" or "db"
	DataCSVPath string

	DBDriver         string // "postgres" or "sqlite"
	DBSync           bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string
	MaxRetries       int

	OutlierPolicy string
	RowLimit      int // 0 disables the cap
	Category      string

	ExportCSVPath  string
	ExportXLSXPath string

	HTTPAddr string
	Debug    bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource:  strings.ToLower(getEnv("DATA_SOURCE", "csv")),
		DataCSVPath: getEnv("DATA_CSV_PATH", "./data/cleaned_data.csv"),

		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DBSync:           getEnvBool("DB_SYNC", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard123"),
		PostgresDB:       getEnv("POSTGRES_DB", "sales_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/products.db"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),

		OutlierPolicy: getEnv("OUTLIER_POLICY", "none"),
		RowLimit:      getEnvInt("ROW_LIMIT", 0),
		Category:      getEnv("CATEGORY", ""),

		ExportCSVPath:  getEnv("EXPORT_CSV_PATH", ""),
		ExportXLSXPath: getEnv("EXPORT_XLSX_PATH", ""),

		HTTPAddr: getEnv("HTTP_ADDR", ""),
		Debug:    getEnvBool("LOG_DEBUG", false),
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// UsesDB reports whether a database connection is needed.
func (c *Config) UsesDB() bool {
	return c.DataSource == "db" || c.DBSync
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
