// Package services contains GreenThumb's business services: schedule generation,
// the assistant chat, saved history, speech input, preferences and rendering.
// Services are registered in a Registry and initialized in registration order.
package services

import (
	"fmt"
	"sync"

	"greenthumb/pkg/gardentypes"
)

// Registry manages service registration and lifecycle for GreenThumb services.
type Registry struct {
	mu       sync.RWMutex
	services map[string]gardentypes.Service
	order    []string
}

// NewRegistry creates a new service registry with an empty service map.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]gardentypes.Service),
	}
}

// RegisterService adds a service to the registry, returning an error if already registered.
func (r *Registry) RegisterService(service gardentypes.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := service.Name()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service %s already registered", name)
	}

	r.services[name] = service
	r.order = append(r.order, name)
	return nil
}

// GetService retrieves a service by name, returning an error if not found.
func (r *Registry) GetService(name string) (gardentypes.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, exists := r.services[name]
	if !exists {
		return nil, fmt.Errorf("service %s not found", name)
	}

	return service, nil
}

// InitializeAll initializes all registered services in registration order.
func (r *Registry) InitializeAll() error {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	r.mu.RUnlock()

	for _, name := range names {
		service, err := r.GetService(name)
		if err != nil {
			return err
		}
		if err := service.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize service %s: %w", name, err)
		}
	}

	return nil
}

// GetAllServices returns a copy of all registered services.
func (r *Registry) GetAllServices() map[string]gardentypes.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]gardentypes.Service, len(r.services))
	for name, service := range r.services {
		result[name] = service
	}
	return result
}

var (
	// GlobalRegistry is the service registry used throughout GreenThumb.
	GlobalRegistry = NewRegistry()

	globalRegistryMu sync.RWMutex
)

// GetGlobalRegistry returns the global service registry instance in a thread-safe manner
func GetGlobalRegistry() *Registry {
	globalRegistryMu.RLock()
	defer globalRegistryMu.RUnlock()
	return GlobalRegistry
}

// SetGlobalRegistry sets the global service registry instance in a thread-safe manner
func SetGlobalRegistry(registry *Registry) {
	globalRegistryMu.Lock()
	defer globalRegistryMu.Unlock()
	GlobalRegistry = registry
}

// getGlobalService looks up name in the global registry and asserts its concrete type.
func getGlobalService[T gardentypes.Service](name string) (T, error) {
	var zero T
	service, err := GetGlobalRegistry().GetService(name)
	if err != nil {
		return zero, fmt.Errorf("%s service not available: %w", name, err)
	}
	typed, ok := service.(T)
	if !ok {
		return zero, fmt.Errorf("%s service has unexpected type %T", name, service)
	}
	return typed, nil
}
