package testutils

import (
	"testing"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/pkg/gardentypes"
)

// SetupTestContext installs a fresh test-mode global context and resets the
// deterministic counters. The previous global context is restored on cleanup.
func SetupTestContext(t *testing.T) gardentypes.Context {
	t.Helper()

	previous := greenthumbcontext.GetGlobalContext()
	ctx := greenthumbcontext.New()
	ctx.SetTestMode(true)
	greenthumbcontext.SetGlobalContext(ctx)
	ResetTestCounters()

	t.Cleanup(func() {
		greenthumbcontext.SetGlobalContext(previous)
	})
	return ctx
}
