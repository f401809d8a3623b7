package db

import (
	"fmt"

	"schemalens/internal/schema"
	"schemalens/pkg/config"
)

// Adapter is the uniform connection and introspection surface over one
// backend. An adapter owns at most one native handle, created by Connect
// and released by Disconnect. Adapters are not safe for concurrent use;
// callers serialize access or create one adapter per goroutine.
type Adapter interface {

	// Connect builds the backend connection string from the settings the
	// adapter was constructed with, opens the native client and verifies
	// liveness. It reports false on any failure (logging the cause) and
	// holds no resource afterwards; it never panics or returns an error.
	Connect() bool

	// Disconnect releases the native handle. Idempotent and safe before
	// any Connect.
	Disconnect()

	// ListContainers returns table or collection names in backend-native
	// order. Empty when not connected; never fails.
	ListContainers() []string

	// DescribeContainer returns the uniform schema of one container. The
	// zero ContainerSchema when not connected.
	DescribeContainer(name string) schema.ContainerSchema
}

// Constructor builds an adapter bound to the given settings. No I/O.
type Constructor func(config.Settings) Adapter

var backends = map[string]Constructor{}

// Register makes a Constructor available under name (and is expected to be
// called from init in the adapters package).
func Register(name string, c Constructor) {
	backends[config.NormalizeType(name)] = c
}

// listRegistered returns the registered backend keys (for diagnostics).
func listRegistered() []string {
	keys := make([]string, 0, len(backends))
	for k := range backends {
		keys = append(keys, k)
	}
	return keys
}

// RegisteredTypes is a helper that allows main to print registered backends.
func RegisteredTypes() []string {
	return listRegistered()
}

// InvalidConfigurationError reports a missing or unrecognized db_type.
type InvalidConfigurationError struct {
	DBType string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("unsupported database type: %q", e.DBType)
}

// GetConnection maps the settings' backend type to an adapter instance.
// The lookup is case-insensitive. It performs no network activity; the
// only failure is an unrecognized (or empty) db_type.
func GetConnection(cfg config.Settings) (Adapter, error) {
	c, ok := backends[config.NormalizeType(cfg.DBType)]
	if !ok {
		return nil, &InvalidConfigurationError{DBType: cfg.DBType}
	}
	return c(cfg), nil
}
