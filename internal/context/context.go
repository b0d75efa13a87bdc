// Package context provides the process-wide runtime state for GreenThumb: test mode
// and the layered configuration map that services read their settings from.
package context

import (
	"sync"

	"greenthumb/pkg/gardentypes"
)

// GreenThumbContext implements gardentypes.Context.
type GreenThumbContext struct {
	mu       sync.RWMutex
	testMode bool

	ConfigurationSubcontext
}

var _ gardentypes.Context = (*GreenThumbContext)(nil)

// New creates a context in production mode with an empty configuration map.
func New() *GreenThumbContext {
	ctx := &GreenThumbContext{}
	config := NewConfigurationSubcontext()
	config.SetParentContext(ctx)
	ctx.ConfigurationSubcontext = config
	return ctx
}

// IsTestMode reports whether the context is in test mode.
func (ctx *GreenThumbContext) IsTestMode() bool {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.testMode
}

// SetTestMode switches test mode on or off.
func (ctx *GreenThumbContext) SetTestMode(testMode bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.testMode = testMode
}
