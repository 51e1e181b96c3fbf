package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			BaseURL:      "http://localhost:8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "whatsdesk",
			Password: "password",
			DBName:   "whatsdesk",
		},
		Provider: ProviderConfig{
			APIBaseURL: "https://api.twilio.com/2010-04-01",
			AuthToken:  "token",
		},
		Auth: AuthConfig{
			JWTSecret: "secret",
		},
		Scheduler: SchedulerConfig{
			IntervalMinutes: 15,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateMissingPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.User = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.DBName = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingProviderToken(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.AuthToken = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateSchedulerInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.IntervalMinutes = 0
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	cfg := validConfig()
	dsn := cfg.Database.GetDSN()
	assert.Equal(t, "whatsdesk:password@tcp(localhost:3306)/whatsdesk?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestWebhookURL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http://localhost:8080/webhooks/provider", cfg.Server.WebhookURL())
}
