package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Auth     AuthConfig
	Kafka    KafkaConfig
	Worker   WorkerConfig
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      string
	User      string
	Password  string
	Database  string
	SQLiteDSN string
	Seed      bool
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port     string
	GinMode  string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AuthConfig struct {
	Enabled       bool
	AdminUsername string
	AdminPassword string
}

type KafkaConfig struct {
	Brokers         []string
	AdmissionsTopic string
}

type WorkerConfig struct {
	OverstayCheckInterval time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	driver := getEnv("DB_DRIVER", DriverSQLite)

	return &Config{
		Database: DatabaseConfig{
			Driver:    driver,
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", defaultPort(driver)),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", ""),
			Database:  getEnv("DB_NAME", "hospital_admissions"),
			SQLiteDSN: getEnv("DB_SQLITE_DSN", "file:hospital?mode=memory&cache=shared"),
			Seed:      parseBool(getEnv("SEED_DATA", "true")),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			GinMode:  getEnv("GIN_MODE", "debug"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Auth: AuthConfig{
			Enabled:       parseBool(getEnv("AUTH_ENABLED", "false")),
			AdminUsername: getEnv("BOOTSTRAP_ADMIN_USERNAME", ""),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers:         splitList(getEnv("KAFKA_BROKERS", "")),
			AdmissionsTopic: getEnv("KAFKA_ADMISSIONS_TOPIC", "hospital.admissions"),
		},
		Worker: WorkerConfig{
			OverstayCheckInterval: parseDuration(getEnv("OVERSTAY_CHECK_INTERVAL", "1m"), time.Minute),
		},
	}
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got: %s", c.Server.Port))
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER must be one of sqlite, mysql, postgres, got: %s", c.Database.Driver))
	}

	if c.Auth.Enabled && (c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "") {
		problems = append(problems, "JWT secrets are required when AUTH_ENABLED is true")
	}

	if (c.Auth.AdminUsername == "") != (c.Auth.AdminPassword == "") {
		problems = append(problems, "BOOTSTRAP_ADMIN_USERNAME and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	if c.Worker.OverstayCheckInterval <= 0 {
		problems = append(problems, "OVERSTAY_CHECK_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func splitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
