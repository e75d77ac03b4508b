package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "csv", cfg.Data.Source)
	assert.True(t, cfg.Data.StrictNumericFilters)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 10, cfg.Session.HistorySize)
	assert.Equal(t, 10, cfg.Chat.MaxResults)
	assert.Equal(t, 500, cfg.Chat.MaxMessageLength)
	assert.Equal(t, 8*time.Second, cfg.OpenAI.Timeout)
	assert.False(t, cfg.OpenAI.Enabled)
}

func TestParse_OpenAIEnabledByKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_API_BASE", "https://integrate.api.nvidia.com/v1/")

	cfg, err := parse()
	require.NoError(t, err)

	assert.True(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "https://integrate.api.nvidia.com/v1", cfg.OpenAI.APIBase)
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown data source", key: "DATA_SOURCE", value: "mongo"},
		{name: "unknown session backend", key: "SESSION_BACKEND", value: "memcached"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "zero history", key: "SESSION_HISTORY_SIZE", value: "0"},
		{name: "port out of range", key: "SERVER_PORT", value: "70000"},
		{name: "not a number", key: "CHAT_MAX_RESULTS", value: "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := parse()
			assert.Error(t, err)
		})
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Database: "props", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=props sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://u:p@db/props"
	assert.Equal(t, "postgres://u:p@db/props", cfg.GetPostgreSQLDSN())
}
