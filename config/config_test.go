package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for New to succeed
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWKS_URL", "https://issuer.example.com/.well-known/jwks.json")
}

func TestNew_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := New(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"https://*"}, cfg.Server.CORSAllowedOrigins)

	assert.Equal(t, "https://issuer.example.com/.well-known/jwks.json", cfg.KeySet.URL)
	assert.Zero(t, cfg.KeySet.HTTPTimeout)

	assert.Empty(t, cfg.Token.Issuer)
	assert.Empty(t, cfg.Token.Audience)
	assert.Zero(t, cfg.Token.Leeway)

	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, 9090, cfg.Observability.MetricsPort)
	assert.Equal(t, "0.0.0.0:9090", cfg.MetricsAddress())
	assert.False(t, cfg.Observability.TracingEnabled)
}

func TestNew_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9443")
	t.Setenv("JWKS_HTTP_TIMEOUT", "3s")
	t.Setenv("TOKEN_ISSUER", "https://issuer.example.com/")
	t.Setenv("TOKEN_AUDIENCE", "api")
	t.Setenv("TOKEN_LEEWAY", "30s")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := New(context.Background())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9443, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.KeySet.HTTPTimeout)
	assert.Equal(t, "https://issuer.example.com/", cfg.Token.Issuer)
	assert.Equal(t, "api", cfg.Token.Audience)
	assert.Equal(t, 30*time.Second, cfg.Token.Leeway)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, "text", cfg.Observability.LogFormat)
	assert.False(t, cfg.Observability.MetricsEnabled)
	assert.True(t, cfg.Observability.TracingEnabled)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSAllowedOrigins)
}

func TestNew_InvalidValuesFallBackToDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("JWKS_HTTP_TIMEOUT", "soon")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg, err := New(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Zero(t, cfg.KeySet.HTTPTimeout)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing key set url",
			env:     map[string]string{"JWKS_URL": ""},
			wantErr: "URL",
		},
		{
			name:    "key set url not a url",
			env:     map[string]string{"JWKS_URL": "jwks"},
			wantErr: "URL",
		},
		{
			name:    "plain http in production",
			env:     map[string]string{"JWKS_URL": "http://issuer.example.com/jwks.json", "ENVIRONMENT": "production"},
			wantErr: "https",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "LogLevel",
		},
		{
			name:    "unknown log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "LogFormat",
		},
		{
			name:    "negative leeway",
			env:     map[string]string{"TOKEN_LEEWAY": "-5s"},
			wantErr: "Leeway",
		},
		{
			name:    "metrics port collides with server port",
			env:     map[string]string{"PORT": "9090"},
			wantErr: "metrics port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := New(context.Background())
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_HTTPAllowedOutsideProduction(t *testing.T) {
	cfg := &Config{
		Environment: "development",
		Server:      ServerConfig{Port: 8080},
		KeySet:      KeySetConfig{URL: "http://localhost:8081/jwks.json"},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
	}

	assert.NoError(t, cfg.Validate())
}
