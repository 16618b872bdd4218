package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBName string
	JWTKey string

	CertificateBasePath  string // public path certificates are served from
	CertificateRenderURL string // optional external renderer endpoint

	QuizResetRole string // role allowed to reset quiz attempts
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		DBName: getEnv("DB_NAME", "medintern"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		CertificateBasePath:  getEnv("CERTIFICATE_BASE_PATH", "/certificates"),
		CertificateRenderURL: getEnv("CERTIFICATE_RENDER_URL", ""),

		QuizResetRole: getEnv("QUIZ_RESET_ROLE", "ADMIN"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
