package config

import (
	"os"

	apperrors "postgraph/pkg/errors"
	"postgraph/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `validate:"required"`
	Environment   string `validate:"required,oneof=development staging production"`

	// AWS configuration
	AWSRegion        string `validate:"required"`
	TableName        string `validate:"required"`
	DynamoDBEndpoint string
	EventBusName     string

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		TableName:     getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "posts")),

		// DYNAMODB_ENDPOINT points the client at DynamoDB Local; empty means
		// the real service endpoint for AWS_REGION.
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),

		// EVENT_BUS_NAME is optional; when empty, lifecycle events are not
		// published anywhere.
		EventBusName: getEnv("EVENT_BUS_NAME", ""),

		// Logging and features
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return apperrors.NewValidationError(err.Error()).WithCode("BAD_CONFIG")
	}

	if c.IsProduction() && c.DynamoDBEndpoint != "" {
		return apperrors.NewValidationError("DYNAMODB_ENDPOINT must not be set in production").
			WithCode("BAD_CONFIG")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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
