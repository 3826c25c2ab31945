package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	AWS      AWSConfig      `json:"aws"`
	Search   SearchConfig   `json:"search"`
	Security SecurityConfig `json:"security"`
	Email    EmailConfig    `json:"email"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	PublicURL    string        `json:"public_url"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// AWSConfig groups the AWS-backed collaborators
type AWSConfig struct {
	Region             string `json:"region"`
	MediaBucket        string `json:"media_bucket"`
	AnalyticsTable     string `json:"analytics_table"`
	BillingEventsTopic string `json:"billing_events_topic"`
}

// SearchConfig represents the Elasticsearch cluster configuration
type SearchConfig struct {
	Addresses []string `json:"addresses"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Index     string   `json:"index"`
}

// SecurityConfig
type SecurityConfig struct {
	JWTSecret            string        `json:"jwt_secret"`
	TokenTTL             time.Duration `json:"token_ttl"`
	BillingWebhookSecret string        `json:"billing_webhook_secret"`
}

// EmailConfig represents outbound email configuration
type EmailConfig struct {
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			PublicURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "athlete_portal",
			SSLMode: "disable",
		},
		AWS: AWSConfig{
			Region:      "us-east-1",
			MediaBucket: "athlete-portal-media",
		},
		Search: SearchConfig{
			Addresses: []string{"http://localhost:9200"},
			Index:     "athlete-profiles",
		},
		Security: SecurityConfig{
			TokenTTL: 24 * time.Hour,
		},
		Email: EmailConfig{
			FromAddress: "no-reply@athleteportal.example.com",
			FromName:    "Athlete Portal",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if url := os.Getenv("SERVER_PUBLIC_URL"); url != "" {
		config.Server.PublicURL = url
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.AWS.Region = region
	}
	if bucket := os.Getenv("MEDIA_BUCKET"); bucket != "" {
		config.AWS.MediaBucket = bucket
	}
	if table := os.Getenv("ANALYTICS_TABLE"); table != "" {
		config.AWS.AnalyticsTable = table
	}
	if topic := os.Getenv("BILLING_EVENTS_TOPIC"); topic != "" {
		config.AWS.BillingEventsTopic = topic
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}
	if secret := os.Getenv("BILLING_WEBHOOK_SECRET"); secret != "" {
		config.Security.BillingWebhookSecret = secret
	}
	if from := os.Getenv("EMAIL_FROM_ADDRESS"); from != "" {
		config.Email.FromAddress = from
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
