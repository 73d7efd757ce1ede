package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	Loan     LoanConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	TTL    int // in hours
}

// EmailConfig holds email configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

// LoanConfig holds the lending policy. The monthly rate is a policy default
// applied to every loan; it is not editable per request.
type LoanConfig struct {
	MinCapital     decimal.Decimal
	MaxCapital     decimal.Decimal
	AllowedTerms   []int
	MonthlyRate    decimal.Decimal
	PaymentCeiling decimal.Decimal
}

// LoadConfig loads configuration from a local .env file (when present) and
// environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	jwtTTL, err := strconv.Atoi(getEnv("JWT_TTL", "24"))
	if err != nil {
		return nil, err
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	minCapital, err := getDecimalEnv("LOAN_MIN_CAPITAL", "100.00")
	if err != nil {
		return nil, err
	}

	maxCapital, err := getDecimalEnv("LOAN_MAX_CAPITAL", "20000.00")
	if err != nil {
		return nil, err
	}

	monthlyRate, err := getDecimalEnv("LOAN_MONTHLY_RATE", "0.01")
	if err != nil {
		return nil, err
	}

	paymentCeiling, err := getDecimalEnv("LOAN_PAYMENT_CEILING", "10000.00")
	if err != nil {
		return nil, err
	}

	allowedTerms, err := parseTerms(getEnv("LOAN_ALLOWED_TERMS", "3,6,12,18,24,36"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: port,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "asotema"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "super_secret_key"),
			TTL:    jwtTTL,
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.example.com"),
			SMTPPort:     smtpPort,
			SMTPUser:     getEnv("SMTP_USER", "user"),
			SMTPPassword: getEnv("SMTP_PASSWORD", "password"),
			SenderEmail:  getEnv("SENDER_EMAIL", "no-reply@asotema.org"),
		},
		Loan: LoanConfig{
			MinCapital:     minCapital,
			MaxCapital:     maxCapital,
			AllowedTerms:   allowedTerms,
			MonthlyRate:    monthlyRate,
			PaymentCeiling: paymentCeiling,
		},
	}, nil
}

// LoanPolicy builds the engine policy from the loan configuration
func (c *Config) LoanPolicy() models.LoanPolicy {
	return models.LoanPolicy{
		MinCapital:     c.Loan.MinCapital,
		MaxCapital:     c.Loan.MaxCapital,
		AllowedTerms:   c.Loan.AllowedTerms,
		MonthlyRate:    c.Loan.MonthlyRate,
		PaymentCeiling: c.Loan.PaymentCeiling,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDecimalEnv(key, defaultValue string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(getEnv(key, defaultValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal value for %s: %w", key, err)
	}
	return value, nil
}

func parseTerms(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	terms := make([]int, 0, len(parts))

	for _, part := range parts {
		term, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || term < 1 {
			return nil, fmt.Errorf("invalid loan term %q", part)
		}
		terms = append(terms, term)
	}

	return terms, nil
}
