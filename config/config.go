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
	AuthModeRedirect = "redirect"
	AuthModeLoopback = "loopback"

	StoreDriverSheets = "sheets"
	StoreDriverSQLite = "sqlite"

	SessionDriverRedis  = "redis"
	SessionDriverMemory = "memory"
)

type Config struct {
	ServerAddr  string
	CORSOrigins []string

	// Google OAuth2 client
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AuthMode           string
	TokenFile          string
	LoopbackAddr       string

	// Record store
	StoreDriver   string
	SpreadsheetID string
	SheetName     string
	SQLitePath    string

	// Sessions
	SessionDriver string
	SessionSecret string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPort     string
	RedisPassword string

	// Log configuration
	LogLevel      string
	LogFilename   string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

func (c *Config) RedisFullAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisAddr, c.RedisPort)
}

// Validate reports settings the selected drivers cannot run without.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeRedirect, AuthModeLoopback:
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", c.AuthMode)
	}
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	switch c.StoreDriver {
	case StoreDriverSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("SPREADSHEET_ID is required for the sheets store")
		}
	case StoreDriverSQLite:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.SessionDriver {
	case SessionDriverRedis, SessionDriverMemory:
	default:
		return fmt.Errorf("unsupported SESSION_DRIVER %q", c.SessionDriver)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// Ignore error if .env file is not found
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/"),
		AuthMode:           getEnv("AUTH_MODE", AuthModeRedirect),
		TokenFile:          getEnv("TOKEN_FILE", ".credentials/token.json"),
		LoopbackAddr:       getEnv("LOOPBACK_ADDR", "127.0.0.1:8085"),

		StoreDriver:   getEnv("STORE_DRIVER", StoreDriverSheets),
		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),
		SheetName:     getEnv("SHEET_NAME", "Sheet1"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/prompts.db"),

		SessionDriver: getEnv("SESSION_DRIVER", SessionDriverRedis),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		RedisAddr:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogFilename:   getEnv("LOG_FILENAME", "logs/app.log"),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvAsBool("LOG_COMPRESS", true),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
