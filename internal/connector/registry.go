package connector

import (
	"errors"
	"fmt"
	"sort"
)

// ErrConnectorUnavailable indicates that no connector can serve a customer:
// the accounting-system identifier is unknown or the credential bundle is
// incomplete. Distinct from RemoteFetchError so the caller can report a
// configuration problem instead of a transient remote failure.
var ErrConnectorUnavailable = errors.New("connector: no connector available")

// Factory builds a connector from a customer's opaque credential bundle.
type Factory func(credentials map[string]string) (Connector, error)

// Registry maps accounting-system identifiers to connector factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given system identifier.
func (r *Registry) Register(system string, factory Factory) {
	r.factories[system] = factory
}

// Systems lists the registered system identifiers.
func (r *Registry) Systems() []string {
	out := make([]string, 0, len(r.factories))
	for system := range r.factories {
		out = append(out, system)
	}
	sort.Strings(out)
	return out
}

// For resolves a connector for the given system identifier and credential
// bundle. Unknown identifiers and rejected credentials both yield
// ErrConnectorUnavailable.
func (r *Registry) For(system string, credentials map[string]string) (Connector, error) {
	factory, ok := r.factories[system]
	if !ok {
		return nil, fmt.Errorf("%w: unknown system %q", ErrConnectorUnavailable, system)
	}
	conn, err := factory(credentials)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectorUnavailable, system, err)
	}
	return conn, nil
}
