package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/internal/logger"
	"greenthumb/internal/schedule"
	"greenthumb/internal/testutils"
	"greenthumb/pkg/gardentypes"
)

// FallbackScheduleLabel is used when neither the greeting nor the climate zone names a place.
const FallbackScheduleLabel = "Personalized Schedule"

// placeholderLocation is the greeting phrase the model uses when it has no place name.
const placeholderLocation = "your area"

var greetingLocationPattern = regexp.MustCompile(`(?i)for\s+(.+?)(?:\.|$)`)

// DeriveLabel picks the display label for a saved schedule: the place named in the
// greeting, else the climate zone, else FallbackScheduleLabel.
func DeriveLabel(s *gardentypes.GeneratedSchedule) string {
	if s == nil {
		return FallbackScheduleLabel
	}
	if match := greetingLocationPattern.FindStringSubmatch(s.GreetingMessage); match != nil {
		location := strings.TrimSpace(match[1])
		if location != "" && !strings.EqualFold(location, placeholderLocation) {
			return location
		}
	}
	if zone := strings.TrimSpace(s.LocationAnalysis.AssumedClimateZone); zone != "" {
		return zone
	}
	return FallbackScheduleLabel
}

// HistoryService keeps up to gardentypes.MaxHistoryEntries saved schedules,
// most recent first, in the key-value store.
type HistoryService struct {
	mu      sync.Mutex
	storage *StorageService
	entries []gardentypes.HistoricalScheduleEntry
	loaded  bool
}

// NewHistoryService creates a history service persisting through storage.
func NewHistoryService(storage *StorageService) *HistoryService {
	return &HistoryService{storage: storage}
}

// Name returns the service name "history" for registration.
func (h *HistoryService) Name() string {
	return "history"
}

// Initialize performs no work; the collection is loaded on first use.
func (h *HistoryService) Initialize() error {
	return nil
}

// List returns the saved entries, most recent first.
func (h *HistoryService) List(ctx context.Context) ([]gardentypes.HistoricalScheduleEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return h.snapshot(), nil
}

// Save records s as a new entry at the front of the history and returns its label.
func (h *HistoryService) Save(ctx context.Context, s *gardentypes.GeneratedSchedule) (string, error) {
	if s == nil {
		return "", ErrNoActiveSchedule
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureLoaded(ctx); err != nil {
		return "", err
	}

	gctx := greenthumbcontext.GetGlobalContext()
	label := DeriveLabel(s)
	entry := gardentypes.HistoricalScheduleEntry{
		ID:       testutils.GenerateULID(gctx),
		SavedAt:  testutils.GetCurrentTime(gctx),
		Location: label,
		Schedule: *s,
	}

	next := make([]gardentypes.HistoricalScheduleEntry, 0, gardentypes.MaxHistoryEntries)
	next = append(next, entry)
	next = append(next, h.entries...)
	if len(next) > gardentypes.MaxHistoryEntries {
		next = next[:gardentypes.MaxHistoryEntries]
	}

	if err := h.persist(ctx, next); err != nil {
		return "", err
	}
	h.entries = next
	logger.Debug("Saved schedule to history", "id", entry.ID, "label", label)
	return label, nil
}

// Load returns the entry with id. found is false when no such entry exists.
func (h *HistoryService) Load(ctx context.Context, id string) (gardentypes.HistoricalScheduleEntry, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureLoaded(ctx); err != nil {
		return gardentypes.HistoricalScheduleEntry{}, false, err
	}
	for _, entry := range h.entries {
		if entry.ID == id {
			return entry, true, nil
		}
	}
	return gardentypes.HistoricalScheduleEntry{}, false, nil
}

// Delete removes the entry with id. Deleting an absent id changes nothing.
func (h *HistoryService) Delete(ctx context.Context, id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureLoaded(ctx); err != nil {
		return false, err
	}

	next := make([]gardentypes.HistoricalScheduleEntry, 0, len(h.entries))
	for _, entry := range h.entries {
		if entry.ID != id {
			next = append(next, entry)
		}
	}
	if len(next) == len(h.entries) {
		return false, nil
	}

	if err := h.persist(ctx, next); err != nil {
		return false, err
	}
	h.entries = next
	return true, nil
}

// Rename sets the user-defined name of the entry with id. An empty name restores the derived label.
func (h *HistoryService) Rename(ctx context.Context, id, name string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureLoaded(ctx); err != nil {
		return false, err
	}

	next := h.snapshot()
	found := false
	for i := range next {
		if next[i].ID == id {
			next[i].Name = strings.TrimSpace(name)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := h.persist(ctx, next); err != nil {
		return false, err
	}
	h.entries = next
	return true, nil
}

// Clear removes every saved entry.
func (h *HistoryService) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.persist(ctx, nil); err != nil {
		return err
	}
	h.entries = nil
	h.loaded = true
	return nil
}

// Resolve finds an entry by exact ID, 1-based position in List order or unique ID prefix.
func (h *HistoryService) Resolve(ctx context.Context, ref string) (gardentypes.HistoricalScheduleEntry, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureLoaded(ctx); err != nil {
		return gardentypes.HistoricalScheduleEntry{}, false, err
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return gardentypes.HistoricalScheduleEntry{}, false, nil
	}
	for _, entry := range h.entries {
		if entry.ID == ref {
			return entry, true, nil
		}
	}
	if index, err := strconv.Atoi(ref); err == nil {
		if index >= 1 && index <= len(h.entries) {
			return h.entries[index-1], true, nil
		}
		return gardentypes.HistoricalScheduleEntry{}, false, nil
	}

	var match *gardentypes.HistoricalScheduleEntry
	for i := range h.entries {
		if strings.HasPrefix(strings.ToLower(h.entries[i].ID), strings.ToLower(ref)) {
			if match != nil {
				return gardentypes.HistoricalScheduleEntry{}, false, fmt.Errorf("history reference %q is ambiguous", ref)
			}
			match = &h.entries[i]
		}
	}
	if match == nil {
		return gardentypes.HistoricalScheduleEntry{}, false, nil
	}
	return *match, true, nil
}

func (h *HistoryService) snapshot() []gardentypes.HistoricalScheduleEntry {
	out := make([]gardentypes.HistoricalScheduleEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// ensureLoaded reads the persisted collection once. Corrupt content is cleared.
func (h *HistoryService) ensureLoaded(ctx context.Context) error {
	if h.loaded {
		return nil
	}

	store, err := h.storage.Store()
	if err != nil {
		return err
	}
	value, ok, err := store.Get(ctx, KeyHistory)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	h.entries = nil
	if ok && strings.TrimSpace(value) != "" {
		entries, decodeErr := decodeHistory(value)
		if decodeErr != nil {
			logger.Warn("Clearing corrupt schedule history", "error", decodeErr)
			if delErr := store.Delete(ctx, KeyHistory); delErr != nil {
				logger.Debug("Failed to clear schedule history", "error", delErr)
			}
		} else {
			h.entries = entries
		}
	}

	h.loaded = true
	return nil
}

func (h *HistoryService) persist(ctx context.Context, entries []gardentypes.HistoricalScheduleEntry) error {
	store, err := h.storage.Store()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []gardentypes.HistoricalScheduleEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := store.Set(ctx, KeyHistory, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// decodeHistory reads a stored history array. Entries written by older clients with
// millisecond savedAt values and loosely typed schedules are accepted.
func decodeHistory(value string) ([]gardentypes.HistoricalScheduleEntry, error) {
	if !gjson.Valid(value) {
		return nil, fmt.Errorf("history is not valid JSON")
	}
	doc := gjson.Parse(value)
	if !doc.IsArray() {
		return nil, fmt.Errorf("history is not a JSON array")
	}

	var entries []gardentypes.HistoricalScheduleEntry
	var decodeErr error
	doc.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if !item.IsObject() || id == "" {
			decodeErr = fmt.Errorf("history entry %d has no id", len(entries))
			return false
		}

		saved, err := schedule.Parse(item.Get("schedule").Raw, item.Get("schedule").Raw)
		if err != nil {
			decodeErr = fmt.Errorf("history entry %s: %w", id, err)
			return false
		}

		entries = append(entries, gardentypes.HistoricalScheduleEntry{
			ID:       id,
			SavedAt:  parseSavedAt(item.Get("savedAt")),
			Location: item.Get("location").String(),
			Schedule: *saved,
			Name:     item.Get("name").String(),
		})
		return len(entries) < gardentypes.MaxHistoryEntries
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return entries, nil
}

func parseSavedAt(r gjson.Result) time.Time {
	switch r.Type {
	case gjson.Number:
		return time.UnixMilli(r.Int()).UTC()
	case gjson.String:
		if t, err := time.Parse(time.RFC3339Nano, r.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GetGlobalHistoryService returns the registered history service.
func GetGlobalHistoryService() (*HistoryService, error) {
	return getGlobalService[*HistoryService]("history")
}
