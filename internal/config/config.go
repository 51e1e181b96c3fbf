package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// ProviderConfig holds messaging provider API configuration. AccountSID and
// AuthToken act as fallback credentials for accounts that have not stored
// their own.
type ProviderConfig struct {
	APIBaseURL  string        `mapstructure:"api_base_url"`
	AccountSID  string        `mapstructure:"account_sid"`
	AuthToken   string        `mapstructure:"auth_token"`
	PhoneNumber string        `mapstructure:"phone_number"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// AuthConfig holds the JWT verification secret. Tokens are issued by the
// external auth provider; this service only verifies them.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// SchedulerConfig holds the label refresh scheduler configuration
type SchedulerConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)

	viper.SetDefault("provider.api_base_url", "https://api.twilio.com/2010-04-01")
	viper.SetDefault("provider.http_timeout", "15s")

	viper.SetDefault("scheduler.interval_minutes", 15)
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.base_url", "SERVER_BASE_URL")
	viper.BindEnv("server.cors_origins", "SERVER_CORS_ORIGINS")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")

	viper.BindEnv("provider.api_base_url", "PROVIDER_API_BASE_URL")
	viper.BindEnv("provider.account_sid", "PROVIDER_ACCOUNT_SID")
	viper.BindEnv("provider.auth_token", "PROVIDER_AUTH_TOKEN")
	viper.BindEnv("provider.phone_number", "PROVIDER_PHONE_NUMBER")
	viper.BindEnv("provider.http_timeout", "PROVIDER_HTTP_TIMEOUT")

	viper.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")

	viper.BindEnv("scheduler.interval_minutes", "SCHEDULER_INTERVAL_MINUTES")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// WebhookURL returns the full inbound webhook URL, used both for provider
// configuration and for signature verification.
func (c *ServerConfig) WebhookURL() string {
	return c.BaseURL + "/webhooks/provider"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host, user, and dbname are required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth JWT secret is required")
	}

	if c.Provider.AuthToken == "" {
		return fmt.Errorf("provider auth token is required")
	}

	if c.Scheduler.IntervalMinutes <= 0 {
		return fmt.Errorf("scheduler interval must be greater than 0")
	}

	return nil
}
