package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"greenthumb/internal/logger"
	"greenthumb/pkg/gardentypes"
)

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ClientConstructor builds a completion client for an API key.
type ClientConstructor func(apiKey string) gardentypes.CompletionClient

// ClientFactoryService creates and caches completion clients per provider.
type ClientFactoryService struct {
	initialized  bool
	config       *ConfigurationService
	constructors map[string]ClientConstructor
	clients      map[string]gardentypes.CompletionClient
	mutex        sync.RWMutex
}

// NewClientFactoryService creates a factory with the gemini, openai and anthropic providers.
func NewClientFactoryService(config *ConfigurationService) *ClientFactoryService {
	f := &ClientFactoryService{
		config:       config,
		constructors: make(map[string]ClientConstructor),
		clients:      make(map[string]gardentypes.CompletionClient),
	}
	f.RegisterProvider(ProviderGemini, func(apiKey string) gardentypes.CompletionClient { return NewGeminiClient(apiKey) })
	f.RegisterProvider(ProviderOpenAI, func(apiKey string) gardentypes.CompletionClient { return NewOpenAIClient(apiKey) })
	f.RegisterProvider(ProviderAnthropic, func(apiKey string) gardentypes.CompletionClient { return NewAnthropicClient(apiKey) })
	return f
}

// Name returns the service name "client_factory" for registration.
func (f *ClientFactoryService) Name() string {
	return "client_factory"
}

// Initialize warns once when the selected provider has no API key.
func (f *ClientFactoryService) Initialize() error {
	provider := f.config.GetProvider()
	if !f.IsSupported(provider) {
		return fmt.Errorf("unsupported provider '%s'. Supported providers: %s", provider, strings.Join(f.SupportedProviders(), ", "))
	}
	if _, err := f.config.GetAPIKey(provider); err != nil {
		logger.Warn("Completion provider is not configured", "provider", provider, "error", err)
	}

	f.initialized = true
	logger.ServiceOperation("client_factory", "initialize", "completed")
	return nil
}

// RegisterProvider adds or replaces a provider constructor and drops cached clients for it.
func (f *ClientFactoryService) RegisterProvider(name string, constructor ClientConstructor) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.constructors[name] = constructor
	for id := range f.clients {
		if strings.HasPrefix(id, name+":") {
			delete(f.clients, id)
		}
	}
}

// IsSupported reports whether provider has a registered constructor.
func (f *ClientFactoryService) IsSupported(provider string) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	_, ok := f.constructors[provider]
	return ok
}

// SupportedProviders returns the registered provider names, sorted.
func (f *ClientFactoryService) SupportedProviders() []string {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	names := make([]string, 0, len(f.constructors))
	for name := range f.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetClient returns the client for the configured provider.
func (f *ClientFactoryService) GetClient() (gardentypes.CompletionClient, error) {
	return f.GetClientForProvider(f.config.GetProvider())
}

// GetClientForProvider returns a cached or new client for provider. A missing API key
// does not fail here: the returned client reports ErrMissingAPIKey on every call.
func (f *ClientFactoryService) GetClientForProvider(provider string) (gardentypes.CompletionClient, error) {
	apiKey, _ := f.config.GetAPIKey(provider)
	clientID := generateClientID(provider, apiKey)

	f.mutex.RLock()
	client, cached := f.clients[clientID]
	constructor, supported := f.constructors[provider]
	f.mutex.RUnlock()

	if cached {
		return client, nil
	}
	if !supported {
		return nil, fmt.Errorf("unsupported provider '%s'. Supported providers: %s", provider, strings.Join(f.SupportedProviders(), ", "))
	}

	client = constructor(apiKey)

	f.mutex.Lock()
	f.clients[clientID] = client
	f.mutex.Unlock()

	logger.Debug("Created new provider client", "provider", provider, "clientID", clientID)
	return client, nil
}

// generateClientID derives a cache key without keeping the raw API key,
// e.g. "openai:a1b2c3d4".
func generateClientID(provider, apiKey string) string {
	if apiKey == "" {
		return fmt.Sprintf("%s:empty***", provider)
	}
	hash := sha256.Sum256([]byte(apiKey))
	return fmt.Sprintf("%s:%s", provider, hex.EncodeToString(hash[:])[:8])
}

// GetGlobalClientFactoryService returns the registered client factory.
func GetGlobalClientFactoryService() (*ClientFactoryService, error) {
	return getGlobalService[*ClientFactoryService]("client_factory")
}
