package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	SMTP     SMTPConfig
	Paystack PaystackConfig
	Google   GoogleConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret     string
	OTPTTLMinutes string
	SupportEmail  string
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// PaystackConfig holds payment provider settings
type PaystackConfig struct {
	SecretKey   string
	CallbackURL string
}

// GoogleConfig holds calendar API settings
type GoogleConfig struct {
	AccessToken string
	CalendarID  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "futaverse"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			OTPTTLMinutes: getEnv("OTP_TTL_MINUTES", "10"),
			SupportEmail:  getEnv("SUPPORT_EMAIL", "support@futaverse.app"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", ""),
			FromName: getEnv("MAIL_FROM_NAME", "FutaVerse"),
		},
		Paystack: PaystackConfig{
			SecretKey:   getEnv("PAYSTACK_SECRET_KEY", ""),
			CallbackURL: getEnv("PAYSTACK_CALLBACK_URL", ""),
		},
		Google: GoogleConfig{
			AccessToken: getEnv("GOOGLE_ACCESS_TOKEN", ""),
			CalendarID:  getEnv("GOOGLE_CALENDAR_ID", "primary"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
