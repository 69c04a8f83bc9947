package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "file", cfg.StorageDriver)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 6, cfg.MaxTasksPerDay)
	require.Equal(t, 3, cfg.TaskPoints)
	require.Equal(t, 12*time.Hour, cfg.CommentTTL)
	require.Empty(t, cfg.ESAddrs())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("MAX_TASKS_PER_DAY", "3")
	t.Setenv("HTTP_LOG_ENABLED", "true")
	t.Setenv("ELASTICSEARCH_ADDRS", " http://a:9200 , ,http://b:9200")

	cfg := Load()

	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 3, cfg.MaxTasksPerDay)
	require.True(t, cfg.HTTPLogEnabled)
	require.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.ESAddrs())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("MAX_TASKS_PER_DAY", "many")
	t.Setenv("DEBUG_METRICS_ENABLED", "maybe")

	cfg := Load()

	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 6, cfg.MaxTasksPerDay)
	require.True(t, cfg.DebugMetricsEnabled)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	require.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Not/AZone"
	require.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = ""
	require.Equal(t, time.Local, cfg.Location())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	require.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.PostgresDSN())
}
