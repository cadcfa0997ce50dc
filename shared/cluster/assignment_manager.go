// shared/cluster/assignment_manager.go
package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/shared/registry"
	"github.com/stathat/consistent"
)

// ServiceDirectory lists the live instances of a service type.
// *registry.RegistryClient satisfies it.
type ServiceDirectory interface {
	GetActiveServices(ctx context.Context, serviceType string) (map[string]registry.ServiceInfo, error)
}

// Identity names the local instance. *registry.ServiceRegistrar satisfies it.
type Identity interface {
	GetServiceID() string
	GetServiceType() string
}

// ServiceAssignmentManager helps a service instance determine if it's responsible
// for a given entity (e.g., a player document) based on consistent hashing across active instances.
type ServiceAssignmentManager struct {
	directory      ServiceDirectory
	self           Identity
	updateInterval time.Duration
	consistentHash *consistent.Consistent
	chMux          sync.RWMutex // Protects access to consistentHash
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewServiceAssignmentManager creates and initializes a new ServiceAssignmentManager.
// The ring starts with only this instance on it until the first refresh.
func NewServiceAssignmentManager(
	directory ServiceDirectory,
	self Identity,
	updateInterval time.Duration,
	logger *slog.Logger,
) *ServiceAssignmentManager {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	sam := &ServiceAssignmentManager{
		directory:      directory,
		self:           self,
		updateInterval: updateInterval,
		consistentHash: consistent.New(),
		logger:         logger.With("service_type", self.GetServiceType(), "service_id", self.GetServiceID()),
		ctx:            ctx,
		cancel:         cancel,
	}

	sam.chMux.Lock()
	sam.consistentHash.Add(self.GetServiceID())
	sam.chMux.Unlock()

	sam.logger.Info("ServiceAssignmentManager initialized", "update_interval", updateInterval)
	return sam
}

// Start begins the periodic update of the consistent hash ring.
// This method should be run in a goroutine.
func (sam *ServiceAssignmentManager) Start() {
	ticker := time.NewTicker(sam.updateInterval)
	defer ticker.Stop()

	sam.logger.Info("ServiceAssignmentManager: consistent hash updater loop started")
	sam.Refresh(sam.ctx)

	for {
		select {
		case <-sam.ctx.Done():
			sam.logger.Info("ServiceAssignmentManager: consistent hash updater loop shutting down")
			return
		case <-ticker.C:
			sam.Refresh(sam.ctx)
		}
	}
}

// Stop gracefully shuts down the ServiceAssignmentManager.
func (sam *ServiceAssignmentManager) Stop() {
	sam.cancel()
}

// Refresh fetches the current active instances and rebuilds the ring if the
// member set has changed. An instance missing from the registry (not yet
// heartbeated) keeps itself on the ring.
func (sam *ServiceAssignmentManager) Refresh(ctx context.Context) {
	activeServices, err := sam.directory.GetActiveServices(ctx, sam.self.GetServiceType())
	if err != nil {
		sam.logger.Error("ServiceAssignmentManager: failed to get active services", "error", err)
		return
	}

	members := make([]string, 0, len(activeServices)+1)
	for id := range activeServices {
		members = append(members, id)
	}
	if _, ok := activeServices[sam.self.GetServiceID()]; !ok {
		members = append(members, sam.self.GetServiceID())
	}
	slices.Sort(members)

	sam.chMux.Lock()
	defer sam.chMux.Unlock()

	currentMembers := sam.consistentHash.Members()
	slices.Sort(currentMembers)

	if !slices.Equal(members, currentMembers) {
		newHashRing := consistent.New()
		for _, member := range members {
			newHashRing.Add(member)
		}
		sam.consistentHash = newHashRing
		sam.logger.Info("ServiceAssignmentManager: consistent hash ring updated", "members", members)
	}
}

// IsResponsible checks if the current service instance is responsible for the given entity ID.
func (sam *ServiceAssignmentManager) IsResponsible(entityID string) (bool, error) {
	sam.chMux.RLock()
	defer sam.chMux.RUnlock()

	if len(sam.consistentHash.Members()) == 0 {
		return false, fmt.Errorf("consistent hash ring is empty for service type %s", sam.self.GetServiceType())
	}

	responsibleService, err := sam.consistentHash.Get(entityID)
	if err != nil {
		return false, fmt.Errorf("failed to get responsible service for entity '%s' (type %s): %w", entityID, sam.self.GetServiceType(), err)
	}

	return responsibleService == sam.self.GetServiceID(), nil
}
