// shared/registry/registrar.go
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/shared/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ServiceRegistrar handles the self-registration and heartbeating of a service instance.
type ServiceRegistrar struct {
	redisClient redis.UniversalClient
	serviceType string
	cfg         *config.CommonConfig
	serviceID   string
	logger      *slog.Logger
	stopChan    chan struct{}
	doneChan    chan struct{}
}

// NewServiceRegistrar creates a new ServiceRegistrar with a freshly generated instance ID.
func NewServiceRegistrar(redisClient redis.UniversalClient, serviceType string, cfg *config.CommonConfig, logger *slog.Logger) *ServiceRegistrar {
	if logger == nil {
		logger = slog.Default()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceType, uuid.New().String())

	return &ServiceRegistrar{
		redisClient: redisClient,
		serviceType: serviceType,
		cfg:         cfg,
		serviceID:   serviceID,
		logger:      logger.With("service_type", serviceType, "service_id", serviceID),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start begins the service registration and heartbeating process in a goroutine.
func (sr *ServiceRegistrar) Start() {
	sr.logger.Info("Starting service registrar", "ip", sr.cfg.ServiceIP, "port", sr.cfg.ServicePort)
	go sr.run()
}

// Stop signals the registrar to stop its operations, waits for it to finish
// and removes this instance from the registry.
func (sr *ServiceRegistrar) Stop() {
	sr.logger.Info("Signaling service registrar to stop...")
	close(sr.stopChan)
	<-sr.doneChan

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := sr.redisClient.HDel(ctx, registryKey(sr.serviceType), sr.serviceID).Result(); err != nil {
		sr.logger.Error("Failed to remove service from Redis registry on shutdown", "error", err)
	} else {
		sr.logger.Info("Service removed from Redis registry on shutdown")
	}
}

// run is the main loop for the registrar's background goroutine.
func (sr *ServiceRegistrar) run() {
	defer close(sr.doneChan)

	ticker := time.NewTicker(sr.cfg.HeartbeatInterval)
	defer ticker.Stop()

	sr.registerService()

	if sr.cfg.RegistryCleanupInterval > 0 {
		sr.startCleanupLoop()
	}

	for {
		select {
		case <-ticker.C:
			sr.registerService()
		case <-sr.stopChan:
			return
		}
	}
}

// registerService performs the actual registration/heartbeat in Redis.
func (sr *ServiceRegistrar) registerService() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	serviceInfo := ServiceInfo{
		ServiceID:   sr.serviceID,
		ServiceType: sr.serviceType,
		IP:          sr.cfg.ServiceIP,
		Port:        sr.cfg.ServicePort,
		LastSeen:    time.Now().UnixMilli(),
		Metadata:    map[string]string{"version": "1.0"},
	}

	infoJSON, err := json.Marshal(serviceInfo)
	if err != nil {
		sr.logger.Error("Failed to marshal ServiceInfo", "error", err)
		return
	}

	if _, err := sr.redisClient.HSet(ctx, registryKey(sr.serviceType), sr.serviceID, infoJSON).Result(); err != nil {
		sr.logger.Error("Failed to register/heartbeat service to Redis", "error", err)
	} else {
		sr.logger.Debug("Service heartbeated successfully")
	}
}

// startCleanupLoop starts a background goroutine to periodically clean up stale service entries.
func (sr *ServiceRegistrar) startCleanupLoop() {
	go func() {
		cleanupTicker := time.NewTicker(sr.cfg.RegistryCleanupInterval)
		defer cleanupTicker.Stop()
		sr.logger.Info("Starting registry cleanup loop", "interval", sr.cfg.RegistryCleanupInterval)

		for {
			select {
			case <-cleanupTicker.C:
				sr.performCleanup()
			case <-sr.stopChan:
				sr.logger.Info("Registry cleanup loop stopping.")
				return
			}
		}
	}()
}

// performCleanup iterates through registered services and removes stale ones.
func (sr *ServiceRegistrar) performCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashKey := registryKey(sr.serviceType)
	results, err := sr.redisClient.HGetAll(ctx, hashKey).Result()
	if err != nil {
		sr.logger.Error("Cleanup failed to get all services", "error", err)
		return
	}

	now := time.Now()
	for instanceID, infoJSON := range results {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			sr.logger.Warn("Cleanup: corrupt ServiceInfo, deleting", "id", instanceID, "error", err)
			if _, delErr := sr.redisClient.HDel(ctx, hashKey, instanceID).Result(); delErr != nil {
				sr.logger.Error("Cleanup: failed to delete corrupt entry", "id", instanceID, "error", delErr)
			}
			continue
		}

		if !info.isAlive(now, sr.cfg.HeartbeatTTL) {
			if _, delErr := sr.redisClient.HDel(ctx, hashKey, instanceID).Result(); delErr != nil {
				sr.logger.Error("Cleanup: failed to delete stale service", "id", instanceID, "error", delErr)
			} else {
				sr.logger.Info("Cleanup: removed stale service from registry", "id", instanceID)
			}
		}
	}
}

// GetServiceID returns the unique ID assigned to this service instance.
func (sr *ServiceRegistrar) GetServiceID() string {
	return sr.serviceID
}

// GetServiceType returns the type of this service instance.
func (sr *ServiceRegistrar) GetServiceType() string {
	return sr.serviceType
}
