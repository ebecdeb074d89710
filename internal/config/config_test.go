package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Defaults are valid", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Negative cache TTL", func(c *Config) { c.CacheTTLSec = -1 }, true},
		{"Production with default DB password", func(c *Config) {
			c.Env = "production"
		}, true},
		{"Production with strong DB password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "s3cure-enough-for-a-blog"
			c.DBSSLMode = "require"
		}, false},
		{"Prod alias is treated as production", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Port:        "8080",
				Env:         "development",
				DBPassword:  "password",
				DBSSLMode:   "disable",
				CacheTTLSec: 1800,
			}
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: "test"}).IsProduction())
}
