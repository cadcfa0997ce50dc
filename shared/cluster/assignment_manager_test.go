package cluster

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Ftotnem/FIFA-SERVICES/shared/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIdentity string

func (s staticIdentity) GetServiceID() string   { return string(s) }
func (s staticIdentity) GetServiceType() string { return registry.PlayerServiceType }

type fakeDirectory struct {
	ids []string
	err error
}

func (f fakeDirectory) GetActiveServices(ctx context.Context, serviceType string) (map[string]registry.ServiceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]registry.ServiceInfo, len(f.ids))
	for _, id := range f.ids {
		out[id] = registry.ServiceInfo{ServiceID: id, ServiceType: serviceType}
	}
	return out, nil
}

func TestSingleInstanceOwnsEverything(t *testing.T) {
	sam := NewServiceAssignmentManager(fakeDirectory{}, staticIdentity("player-service-a"), 0, nil)
	for i := 0; i < 20; i++ {
		ok, err := sam.IsResponsible(fmt.Sprintf("entity-%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestInstancesPartitionEntities(t *testing.T) {
	ids := []string{"player-service-a", "player-service-b", "player-service-c"}
	managers := make([]*ServiceAssignmentManager, len(ids))
	for i, id := range ids {
		managers[i] = NewServiceAssignmentManager(fakeDirectory{ids: ids}, staticIdentity(id), 0, nil)
		managers[i].Refresh(context.Background())
	}

	for i := 0; i < 100; i++ {
		entity := fmt.Sprintf("%024x", i)
		owners := 0
		for _, m := range managers {
			ok, err := m.IsResponsible(entity)
			require.NoError(t, err)
			if ok {
				owners++
			}
		}
		assert.Equal(t, 1, owners, "entity %s", entity)
	}
}

func TestRefreshErrorKeepsRing(t *testing.T) {
	sam := NewServiceAssignmentManager(fakeDirectory{err: errors.New("redis down")}, staticIdentity("player-service-a"), 0, nil)
	sam.Refresh(context.Background())

	ok, err := sam.IsResponsible("anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
