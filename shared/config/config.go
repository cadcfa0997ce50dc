// shared/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// CommonConfig holds configuration fields that are shared across multiple services.
type CommonConfig struct {
	RedisAddrs              []string      `env:"REDIS_ADDRS" envSeparator:"," envDefault:"localhost:6379"` // One address for a single node, several for a cluster
	RedisPassword           string        `env:"REDIS_PASSWORD"`
	HeartbeatInterval       time.Duration `env:"SERVICE_HEARTBEAT_INTERVAL" envDefault:"5s"`         // How often to send a heartbeat to registry
	HeartbeatTTL            time.Duration `env:"SERVICE_HEARTBEAT_TTL" envDefault:"15s"`             // How long an instance is considered alive without a heartbeat
	RegistryCleanupInterval time.Duration `env:"SERVICE_REGISTRY_CLEANUP_INTERVAL" envDefault:"30s"` // How often the registry actively cleans stale entries
	ServiceIP               string        `env:"POD_IP" envDefault:"0.0.0.0"`                        // The IP address this service advertises for registration
	ServicePort             int           // Derived from the listen address
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat               string        `env:"LOG_FORMAT" envDefault:"text"` // "text" or "json"
}

// MongoConfig holds the document store settings.
type MongoConfig struct {
	MongoDBConnStr           string        `env:"MONGODB_CONN_STR" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDBDatabase          string        `env:"MONGODB_DATABASE" envDefault:"FIFAplayerDB"`
	MongoDBPlayersCollection string        `env:"MONGODB_PLAYERS_COLLECTION" envDefault:"FifaPlayers"`
	MongoDBConnectTimeout    time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// PlayerServiceConfig holds configuration specific to the player-service.
type PlayerServiceConfig struct {
	CommonConfig
	MongoConfig
	ListenAddr          string        `env:"PLAYER_SERVICE_LISTEN_ADDR" envDefault:":5000"`
	PublicBaseURL       string        `env:"PLAYER_SERVICE_PUBLIC_URL" envDefault:"http://localhost:5000"` // Prefix for resource URLs returned on create/edit
	RequestTimeout      time.Duration `env:"PLAYER_SERVICE_REQUEST_TIMEOUT" envDefault:"5s"`
	MaintenanceEnabled  bool          `env:"PLAYER_MAINTENANCE_ENABLED" envDefault:"true"`
	MaintenanceInterval time.Duration `env:"PLAYER_MAINTENANCE_INTERVAL" envDefault:"1m"`
}

// ToolConfig holds configuration for the playerctl operator tool.
type ToolConfig struct {
	MongoConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

// LoadCommonConfig loads common configuration from environment variables.
func LoadCommonConfig() (CommonConfig, error) {
	var cfg CommonConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse common config: %w", err)
	}
	if len(cfg.RedisAddrs) == 0 {
		return cfg, fmt.Errorf("REDIS_ADDRS must list at least one address")
	}
	for i, addr := range cfg.RedisAddrs {
		cfg.RedisAddrs[i] = strings.TrimSpace(addr)
	}
	if cfg.HeartbeatInterval <= 0 || cfg.HeartbeatTTL <= 0 {
		return cfg, fmt.Errorf("heartbeat interval and TTL must be positive (got %s, %s)", cfg.HeartbeatInterval, cfg.HeartbeatTTL)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadPlayerServiceConfig loads configuration for the player-service.
func LoadPlayerServiceConfig() (*PlayerServiceConfig, error) {
	common, err := LoadCommonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for player-service: %w", err)
	}

	cfg := &PlayerServiceConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse player-service config: %w", err)
	}
	cfg.CommonConfig = common
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	// Extract ServicePort from ListenAddr
	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from PLAYER_SERVICE_LISTEN_ADDR '%s': %w", cfg.ListenAddr, err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("PLAYER_SERVICE_REQUEST_TIMEOUT must be positive (got %s)", cfg.RequestTimeout)
	}
	if cfg.MaintenanceEnabled && cfg.MaintenanceInterval <= 0 {
		return nil, fmt.Errorf("PLAYER_MAINTENANCE_INTERVAL must be positive when maintenance is enabled (got %s)", cfg.MaintenanceInterval)
	}
	return cfg, nil
}

// LoadToolConfig loads configuration for playerctl.
func LoadToolConfig() (*ToolConfig, error) {
	cfg := &ToolConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tool config: %w", err)
	}
	return cfg, nil
}

// ParseLogLevel maps a LOG_LEVEL value onto a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// NewLogger builds the process logger from the common settings.
func NewLogger(cfg CommonConfig) *slog.Logger {
	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// extractPort extracts the numeric port from a listen address (e.g., ":5000" -> 5000, "0.0.0.0:5000" -> 5000)
func extractPort(listenAddr string) (int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		// If SplitHostPort fails, check if ListenAddr is just a port (e.g., ":5000")
		if strings.HasPrefix(listenAddr, ":") {
			portStr = strings.TrimPrefix(listenAddr, ":")
		} else {
			return 0, fmt.Errorf("invalid ListenAddr format for port extraction: %w", err)
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number '%s': %w", portStr, err)
	}
	return port, nil
}
