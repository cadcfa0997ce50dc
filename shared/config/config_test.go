package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlayerServiceConfigDefaults(t *testing.T) {
	cfg, err := LoadPlayerServiceConfig()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Equal(t, 5000, cfg.ServicePort)
	assert.Equal(t, "http://localhost:5000", cfg.PublicBaseURL)
	assert.Equal(t, "FIFAplayerDB", cfg.MongoDBDatabase)
	assert.Equal(t, "FifaPlayers", cfg.MongoDBPlayersCollection)
	assert.Equal(t, []string{"localhost:6379"}, cfg.RedisAddrs)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.True(t, cfg.MaintenanceEnabled)
}

func TestLoadPlayerServiceConfigFromEnv(t *testing.T) {
	t.Setenv("PLAYER_SERVICE_LISTEN_ADDR", "0.0.0.0:8081")
	t.Setenv("PLAYER_SERVICE_PUBLIC_URL", "https://fifa.example.com/")
	t.Setenv("REDIS_ADDRS", "redis-0:6379, redis-1:6379")
	t.Setenv("PLAYER_MAINTENANCE_INTERVAL", "90s")

	cfg, err := LoadPlayerServiceConfig()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.ServicePort)
	assert.Equal(t, "https://fifa.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"redis-0:6379", "redis-1:6379"}, cfg.RedisAddrs)
	assert.Equal(t, 90*time.Second, cfg.MaintenanceInterval)
}

func TestLoadPlayerServiceConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "SERVICE_HEARTBEAT_TTL", val: "soon"},
		{name: "bad listen addr", key: "PLAYER_SERVICE_LISTEN_ADDR", val: "localhost"},
		{name: "bad log level", key: "LOG_LEVEL", val: "chatty"},
		{name: "zero timeout", key: "PLAYER_SERVICE_REQUEST_TIMEOUT", val: "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadPlayerServiceConfig()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
