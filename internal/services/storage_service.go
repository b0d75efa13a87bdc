package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/internal/logger"
	"greenthumb/internal/storage"
)

// Storage keys shared with the services that persist state.
const (
	KeyHistory        = "greenThumbAIHistory"
	KeyTheme          = "greenThumbAITheme"
	KeyLanguage       = "greenThumbAILang"
	KeyActiveSchedule = "greenThumbAICurrent"
)

// StorageService owns the key-value store every other service persists into.
type StorageService struct {
	mu     sync.RWMutex
	config *ConfigurationService
	store  storage.Store
}

// NewStorageService creates a storage service that opens the configured backend on Initialize.
func NewStorageService(config *ConfigurationService) *StorageService {
	return &StorageService{config: config}
}

// NewStorageServiceWithStore creates a storage service around an already open store.
func NewStorageServiceWithStore(store storage.Store) *StorageService {
	return &StorageService{store: store}
}

// Name returns the service name "storage" for registration.
func (s *StorageService) Name() string {
	return "storage"
}

// Initialize opens the configured backend unless a store was supplied.
func (s *StorageService) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return nil
	}
	if s.config == nil {
		return fmt.Errorf("storage service has no configuration")
	}

	cfg := s.config.GetStoreConfig()
	if (cfg.Backend == "" || cfg.Backend == storage.BackendSQLite) && cfg.SQLitePath == "" {
		configDir, err := greenthumbcontext.GetGlobalContext().GetUserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to resolve store location: %w", err)
		}
		cfg.SQLitePath = filepath.Join(configDir, "greenthumb.db")
	}

	store, err := storage.Open(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", backendName(cfg.Backend), err)
	}

	s.store = store
	logger.ServiceOperation("storage", "initialize", "backend", backendName(cfg.Backend))
	return nil
}

// Store returns the open store.
func (s *StorageService) Store() (storage.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		return nil, fmt.Errorf("storage service not initialized")
	}
	return s.store, nil
}

// Close releases the underlying store.
func (s *StorageService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

func backendName(backend string) string {
	if backend == "" {
		return storage.BackendSQLite
	}
	return backend
}

// GetGlobalStorageService returns the registered storage service.
func GetGlobalStorageService() (*StorageService, error) {
	return getGlobalService[*StorageService]("storage")
}
