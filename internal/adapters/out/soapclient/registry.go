// Package soapclient implements the outbound adapters that talk to the
// customs authorities: the AFIP SOAP services for Argentina and the DNA GDSF
// services for Paraguay. The package also provides the map-backed client
// registry and a resilience decorator shared by every client.
package soapclient

import (
	"fmt"
	"sync"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

// Registry is a map-backed ports.ClientRegistry. Registration happens in the
// composition root before the server starts; lookups are concurrent.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]ports.WebserviceClient
}

// NewRegistry creates an empty client registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]ports.WebserviceClient)}
}

// Register binds a client to a (country, type) pair, replacing any previous
// binding.
func (r *Registry) Register(country kernel.Country, wsType kernel.WebserviceType, client ports.WebserviceClient) error {
	if err := country.Validate(); err != nil {
		return err
	}
	if err := wsType.Validate(); err != nil {
		return err
	}
	if client == nil {
		return errs.NewValueIsRequiredError("client")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[registryKey(country, wsType)] = client
	return nil
}

// RegisterAll binds one client to every webservice type of a country.
func (r *Registry) RegisterAll(country kernel.Country, client ports.WebserviceClient) error {
	for _, wsType := range kernel.WebserviceTypesForCountry(country) {
		if err := r.Register(country, wsType, client); err != nil {
			return err
		}
	}
	return nil
}

// ClientFor returns the registered client for the pair.
func (r *Registry) ClientFor(country kernel.Country, wsType kernel.WebserviceType) (ports.WebserviceClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[registryKey(country, wsType)]
	if !ok {
		return nil, errs.NewNoClientRegisteredError(country.String(), wsType.String())
	}
	return client, nil
}

func registryKey(country kernel.Country, wsType kernel.WebserviceType) string {
	return fmt.Sprintf("%s|%s", country, wsType)
}
