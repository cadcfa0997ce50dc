// shared/registry/client.go
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RegistryClient reads the registry; ServiceRegistrar only writes its own entry.
type RegistryClient struct {
	redisClient    redis.UniversalClient
	serviceTimeout time.Duration
	logger         *slog.Logger
}

// NewRegistryClient takes an already initialized Redis client.
func NewRegistryClient(redisClient redis.UniversalClient, serviceTimeout time.Duration, logger *slog.Logger) *RegistryClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistryClient{
		redisClient:    redisClient,
		serviceTimeout: serviceTimeout,
		logger:         logger,
	}
}

// GetActiveServices retrieves a map of active service instances for a given service type.
// The map key is the instance ID, and the value is the ServiceInfo.
// Instances whose last heartbeat is older than the service timeout are left out.
func (rc *RegistryClient) GetActiveServices(ctx context.Context, serviceType string) (map[string]ServiceInfo, error) {
	results, err := rc.redisClient.HGetAll(ctx, registryKey(serviceType)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get all services of type %s from Redis: %w", serviceType, err)
	}

	activeServices := make(map[string]ServiceInfo)
	now := time.Now()

	for instanceID, infoJSON := range results {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			rc.logger.Warn("RegistryClient: failed to unmarshal ServiceInfo", "id", instanceID, "type", serviceType, "error", err)
			continue // Skip malformed entries, they'll be cleaned up by the registrar
		}
		if info.isAlive(now, rc.serviceTimeout) {
			activeServices[instanceID] = info
		}
	}
	return activeServices, nil
}
