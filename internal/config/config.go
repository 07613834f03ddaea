package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process settings read from the environment.
type Config struct {
	Port    string
	GinMode string

	Database DatabaseConfig

	JWTSecret      string
	AllowedOrigins []string

	LogLevel string
	LogFile  string

	TelegramBotToken string
	NATSURL          string
	TicketPrefix     string

	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

type DatabaseConfig struct {
	Driver   string // postgres or mysql
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

// Load reads configs/.env and .env when present, then the process
// environment. It returns the names of the files it loaded.
func Load() (*Config, []string) {
	var loaded []string
	for _, path := range []string{"configs/.env", ".env"} {
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	defaultPort := "5432"
	if driver == "mysql" {
		defaultPort = "3306"
	}

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),
		Database: DatabaseConfig{
			Driver:   driver,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", defaultPort),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "vehicle_request"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "Asia/Jakarta"),
		},
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		NATSURL:          os.Getenv("NATS_URL"),
		TicketPrefix:     getEnv("TICKET_PREFIX", "GA-TR-"),
		AdminUsername:    getEnv("ADMIN_USERNAME", "superadmin"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		AdminEmail:       getEnv("ADMIN_EMAIL", "superadmin@lpk-imm.local"),
	}
	return cfg, loaded
}

// GetJWTSecret returns the signing secret. Release mode refuses to start
// without one.
func (c *Config) GetJWTSecret() []byte {
	if c.JWTSecret == "" {
		if c.GinMode == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		return []byte("default_super_secret_key") // development only
	}
	return []byte(c.JWTSecret)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
