package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DBAssignmentTables lets startup create the driver and vehicle junction
	// tables. With it off an existing legacy schema is served as is.
	DBAssignmentTables bool

	LogLevel  string
	JWTSecret string

	RedisURL        string
	KafkaBrokers    []string
	KafkaAdminTopic string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	SMSGatewayURL      string
	SMSGatewayUser     string
	SMSGatewayPassword string

	OutboxRetention time.Duration
}

// LoadConfig reads the environment, after loading envFile when it exists.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	retentionDays, err := strconv.Atoi(env("OUTBOX_RETENTION_DAYS", "30"))
	if err != nil || retentionDays < 1 {
		return Config{}, fmt.Errorf("OUTBOX_RETENTION_DAYS must be a positive number of days")
	}

	assignmentTables, err := strconv.ParseBool(env("DB_ASSIGNMENT_TABLES", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("DB_ASSIGNMENT_TABLES: %w", err)
	}

	config := Config{
		HTTPPort:   env("HTTP_PORT", "8080"),
		DBDriver:   env("DB_DRIVER", "pgx"),
		DBHost:     env("DB_HOST", "localhost"),
		DBPort:     env("DB_PORT", "5432"),
		DBUser:     env("DB_USER", "postgres"),
		DBPassword: env("DB_PASSWORD", ""),
		DBName:     env("DB_NAME", "backoffice"),
		DBSslMode:  env("DB_SSLMODE", "disable"),

		DBAssignmentTables: assignmentTables,

		LogLevel:  env("LOG_LEVEL", "info"),
		JWTSecret: env("JWT_SECRET", ""),

		RedisURL:        env("REDIS_URL", ""),
		KafkaBrokers:    splitList(env("KAFKA_BROKERS", "")),
		KafkaAdminTopic: env("KAFKA_ADMIN_TOPIC", "backoffice.admin-notifications"),

		SMTPHost:     env("SMTP_HOST", ""),
		SMTPPort:     env("SMTP_PORT", "587"),
		SMTPUser:     env("SMTP_USER", ""),
		SMTPPassword: env("SMTP_PASSWORD", ""),
		SMTPFrom:     env("SMTP_FROM", ""),

		SMSGatewayURL:      env("SMS_GATEWAY_URL", ""),
		SMSGatewayUser:     env("SMS_GATEWAY_USER", ""),
		SMSGatewayPassword: env("SMS_GATEWAY_PASSWORD", ""),

		OutboxRetention: time.Duration(retentionDays) * 24 * time.Hour,
	}

	if config.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if config.SMTPHost != "" && config.SMTPFrom == "" {
		return Config{}, errors.New("SMTP_FROM is required when SMTP_HOST is set")
	}
	return config, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
