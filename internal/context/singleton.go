package context

import (
	"sync"

	"greenthumb/pkg/gardentypes"
)

var (
	globalContext     gardentypes.Context
	globalContextMu   sync.RWMutex
	globalContextOnce sync.Once
)

// GetGlobalContext returns the global context singleton, creating it on first use.
func GetGlobalContext() gardentypes.Context {
	globalContextOnce.Do(func() {
		globalContextMu.Lock()
		defer globalContextMu.Unlock()
		if globalContext == nil {
			globalContext = New()
		}
	})

	globalContextMu.RLock()
	defer globalContextMu.RUnlock()
	return globalContext
}

// SetGlobalContext replaces the global context. Useful for tests.
func SetGlobalContext(ctx gardentypes.Context) {
	globalContextMu.Lock()
	defer globalContextMu.Unlock()
	globalContext = ctx
}

// ResetGlobalContext drops the global context so the next GetGlobalContext creates a fresh one.
func ResetGlobalContext() {
	globalContextMu.Lock()
	defer globalContextMu.Unlock()
	globalContext = nil
	globalContextOnce = sync.Once{}
}
