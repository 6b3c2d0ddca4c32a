package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DBConfig holds the postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	LogLevel string
}

// DSN builds the postgres connection URL.
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}

// Config is the process configuration, read once at startup.
type Config struct {
	Port              string
	Store             string // postgres or memory
	DB                DBConfig
	GinMode           string
	CORSOrigins       []string
	CommissionFile    string
	BackupDir         string
	BackupInterval    time.Duration
	BackupKeep        int
	PrometheusEnabled bool
	SeedDemoUsers     bool
	Business          Business
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// getEnv returns the environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		log.Printf("Invalid %s, using %v", key, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		log.Printf("Invalid %s, using %d", key, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, defaultValue.String()))
	if err != nil {
		log.Printf("Invalid %s, using %s", key, defaultValue)
		return defaultValue
	}
	return v
}

// Load reads configs/.env (when present), the environment and the business
// rules file.
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Store: getEnv("STORE", StorePostgres),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			LogLevel: getEnv("DB_LOG_LEVEL", "error"),
		},
		GinMode:           getEnv("GIN_MODE", "debug"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		CommissionFile:    getEnv("COMMISSION_CONFIG", "configs/commission.yaml"),
		BackupDir:         getEnv("BACKUP_DIR", "backups"),
		BackupInterval:    getEnvDuration("BACKUP_INTERVAL", 30*time.Minute),
		BackupKeep:        getEnvInt("BACKUP_KEEP", 7),
		PrometheusEnabled: getEnvBool("PROMETHEUS_ENABLED", false),
		SeedDemoUsers:     getEnvBool("SEED_DEMO_USERS", false),
	}

	business, err := LoadBusiness(cfg.CommissionFile)
	if err != nil {
		return nil, err
	}
	cfg.Business = business
	return cfg, nil
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
