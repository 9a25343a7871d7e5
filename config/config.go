package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	OTPExpiryMinutes int
	TokenExpiryHours int

	EmailSender    string
	Password       string // SMTP App Password
	SendgridApiKey string // If set, mail goes out via SendGrid instead of SMTP

	HRWebhookURL string // Training department endpoint notified on project completion
	UploadDir    string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "instructo"),
		DBPort:     getEnv("DB_PORT", "5432"),

		OTPExpiryMinutes: getEnvInt("OTP_EXPIRY_MINUTES", 10),
		TokenExpiryHours: getEnvInt("TOKEN_EXPIRY_HOURS", 24),

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		Password:       getEnv("EMAIL_PASSWORD", ""),
		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),

		HRWebhookURL: getEnv("HR_WEBHOOK_URL", ""),
		UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
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

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
