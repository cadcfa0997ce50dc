// shared/redis/constants.go
package redis

const (
	// RegistryHashPrefix prefixes the hash holding registered instances of a
	// service type: "services:{<serviceType>}". The hash tag keeps every
	// instance of one type on the same cluster slot.
	RegistryHashPrefix = "services:{%s}"
)
