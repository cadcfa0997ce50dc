// shared/registry/constants.go
package registry

import (
	"fmt"

	redisu "github.com/Ftotnem/FIFA-SERVICES/shared/redis"
)

// PlayerServiceType is the registry name of the player-service.
const PlayerServiceType = "player-service"

func registryKey(serviceType string) string {
	return fmt.Sprintf(redisu.RegistryHashPrefix, serviceType)
}
