package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithPath_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(writeEnvFile(t, "APP_NAME=venuesync-test\n"))
	require.NoError(t, err)

	assert.Equal(t, "venuesync-test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Ticketing.TimeZone)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.InitialDelay)
	assert.Equal(t, 300, cfg.Ticketing.QRImageSize)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadWithPath_Overrides(t *testing.T) {
	cfg, err := LoadWithPath(writeEnvFile(t, `
TIME_ZONE=Europe/Berlin
SWEEP_INTERVAL=15m
SWEEP_INITIAL_DELAY=1s
KAFKA_BROKERS=k1:9092,k2:9092
DATABASE_PORT=6543
`))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Ticketing.TimeZone)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, time.Second, cfg.Scheduler.InitialDelay)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 6543, cfg.Database.Port)

	loc, err := cfg.Ticketing.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadWithPath_MissingFile(t *testing.T) {
	_, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:       AppConfig{Name: "venuesync", Environment: "development"},
			Server:    ServerConfig{Port: 8080},
			Database:  DatabaseConfig{Host: "db", DBName: "venuesync"},
			JWT:       JWTConfig{Secret: "secret"},
			Scheduler: SchedulerConfig{Enabled: true, Interval: time.Hour},
			Ticketing: TicketingConfig{TimeZone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing app name", func(c *Config) { c.App.Name = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"missing secret behind gateway", func(c *Config) {
			c.JWT.Secret = ""
			c.JWT.TrustGatewayHeader = true
		}, false},
		{"default secret in production", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = defaultJWTSecret
		}, true},
		{"missing database host", func(c *Config) { c.Database.Host = "" }, true},
		{"missing database name", func(c *Config) { c.Database.DBName = "" }, true},
		{"unknown zone", func(c *Config) { c.Ticketing.TimeZone = "Mars/Olympus" }, true},
		{"zero interval", func(c *Config) { c.Scheduler.Interval = 0 }, true},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeEnvFile(t, "APP_NAME=from-file\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.App.Name)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	assert.Error(t, err)
}
