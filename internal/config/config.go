package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogFormat    string
	LogLevel     string

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration

	// Login password for the single shared account. Either the bcrypt hash
	// or, for local setups, the plaintext value may be set.
	AppPassword     string
	AppPasswordHash string

	// Extractor configuration
	OpenAIAPIKey  string
	OpenAIModelID string
	OpenAITimeout time.Duration

	// Rasterizer configuration
	PopplerPath string

	// Storage configuration
	DataDir       string
	MaxUploadSize int64
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if present; plain environment variables otherwise
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 120)) * time.Second,
		LogFormat:    getEnvString("LOG_FORMAT", "json"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,

		AppPassword:     os.Getenv("APP_PASSWORD"),
		AppPasswordHash: os.Getenv("APP_PASSWORD_HASH"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModelID: getEnvString("OPENAI_MODEL_ID", "gpt-4o"),
		OpenAITimeout: time.Duration(getEnvInt("OPENAI_TIMEOUT", 60)) * time.Second,

		PopplerPath: os.Getenv("POPPLER_PATH"),

		DataDir:       getEnvString("DATA_DIR", "data"),
		MaxUploadSize: int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 20)) * 1024 * 1024,
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig checks the configuration and fails fast on values the
// application cannot run without; missing-but-survivable values only warn.
func validateConfig(config *Config) error {
	if config.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if config.AppPassword == "" && config.AppPasswordHash == "" {
		return fmt.Errorf("either APP_PASSWORD or APP_PASSWORD_HASH is required")
	}

	if config.OpenAIAPIKey == "" {
		log.Println("Warning: No OpenAI API key provided. Extraction requests will fail.")
	}

	if config.PopplerPath == "" {
		log.Println("Note: POPPLER_PATH not set, relying on pdftoppm being on PATH for PDF uploads.")
	}

	return nil
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
