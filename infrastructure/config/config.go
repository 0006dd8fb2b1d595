package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	LogLevel    string

	// AWS configuration
	AWSRegion        string
	TableName        string
	DynamoDBEndpoint string // local DynamoDB; empty uses the regional endpoint
	EventBusName     string // empty disables publishing of committed events
	ETLBucket        string

	// Repository limits
	TransactItemsMax int
	BatchWriteMax    int

	// Bulk retry
	BulkMaxRetries int
	BulkBaseDelay  time.Duration
	BulkMaxDelay   time.Duration

	// Feature flags
	EnableMetrics bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		AWSRegion:        getEnv("AWS_REGION", "eu-west-2"),
		TableName:        getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "")),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		EventBusName:     getEnv("EVENT_BUS_NAME", ""),
		ETLBucket:        getEnv("ETL_BUCKET", ""),

		TransactItemsMax: getEnvInt("TRANSACT_ITEMS_MAX", 100),
		BatchWriteMax:    getEnvInt("BATCH_WRITE_MAX", 25),

		BulkMaxRetries: getEnvInt("BULK_MAX_RETRIES", 5),
		BulkBaseDelay:  getEnvDuration("BULK_BASE_DELAY", 100*time.Millisecond),
		BulkMaxDelay:   getEnvDuration("BULK_MAX_DELAY", 5*time.Second),

		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	if c.TransactItemsMax < 1 || c.TransactItemsMax > 100 {
		return fmt.Errorf("TRANSACT_ITEMS_MAX must be between 1 and 100, got %d", c.TransactItemsMax)
	}
	if c.BatchWriteMax < 1 || c.BatchWriteMax > 25 {
		return fmt.Errorf("BATCH_WRITE_MAX must be between 1 and 25, got %d", c.BatchWriteMax)
	}
	if c.BulkMaxRetries < 0 {
		return fmt.Errorf("BULK_MAX_RETRIES must not be negative")
	}
	if c.BulkMaxDelay < c.BulkBaseDelay {
		return fmt.Errorf("BULK_MAX_DELAY (%s) is shorter than BULK_BASE_DELAY (%s)", c.BulkMaxDelay, c.BulkBaseDelay)
	}
	return nil
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration parses values such as "250ms" or "2s"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
