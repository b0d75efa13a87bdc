// Package testutils provides deterministic generators and test helpers for GreenThumb.
// Generated values keep their production formats so stored data looks the same in tests.
package testutils

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"greenthumb/pkg/gardentypes"
)

var (
	idCounter uint64
	idMutex   sync.Mutex

	ulidCounter uint64
	ulidMutex   sync.Mutex

	timeCounter int64
	timeMutex   sync.Mutex
)

// baseTime is the first deterministic timestamp: 2025-01-01T00:00:00Z.
var baseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// GenerateUUID returns a UUID that is deterministic in test mode but random in production.
// Test mode yields 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, ...
func GenerateUUID(ctx gardentypes.Context) string {
	if ctx.IsTestMode() {
		return getDeterministicUUID()
	}
	return uuid.New().String()
}

// GenerateULID returns a lexically sortable ID, deterministic in test mode.
func GenerateULID(ctx gardentypes.Context) string {
	if ctx.IsTestMode() {
		return getDeterministicULID()
	}
	return ulid.Make().String()
}

// GetCurrentTime returns time.Now() in production and an incrementing clock
// starting at 2025-01-01T00:00:01Z in test mode.
func GetCurrentTime(ctx gardentypes.Context) time.Time {
	if ctx.IsTestMode() {
		return getDeterministicTime()
	}
	return time.Now()
}

func getDeterministicUUID() string {
	idMutex.Lock()
	defer idMutex.Unlock()

	idCounter++
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", idCounter, idCounter)
}

func getDeterministicULID() string {
	ulidMutex.Lock()
	defer ulidMutex.Unlock()

	ulidCounter++

	var id ulid.ULID
	_ = id.SetTime(ulid.Timestamp(baseTime.Add(time.Duration(ulidCounter) * time.Second)))
	entropy := make([]byte, 10)
	binary.BigEndian.PutUint64(entropy[2:], ulidCounter)
	_ = id.SetEntropy(entropy)
	return id.String()
}

func getDeterministicTime() time.Time {
	timeMutex.Lock()
	defer timeMutex.Unlock()

	timeCounter++
	return baseTime.Add(time.Duration(timeCounter) * time.Second)
}

// ResetTestCounters resets the deterministic counters.
// This should only be called from test code to ensure consistent test runs.
func ResetTestCounters() {
	idMutex.Lock()
	ulidMutex.Lock()
	timeMutex.Lock()
	defer idMutex.Unlock()
	defer ulidMutex.Unlock()
	defer timeMutex.Unlock()

	idCounter = 0
	ulidCounter = 0
	timeCounter = 0
}
