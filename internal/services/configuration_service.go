package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/internal/storage"
)

// envPrefixes are the environment variable prefixes copied into the configuration map.
var envPrefixes = []string{"GREENTHUMB_", "GEMINI_", "OPENAI_", "ANTHROPIC_", "API_KEY"}

// Configuration keys.
const (
	KeyProvider      = "GREENTHUMB_PROVIDER"
	KeyModel         = "GREENTHUMB_MODEL"
	KeyStore         = "GREENTHUMB_STORE"
	KeySQLitePath    = "GREENTHUMB_SQLITE_PATH"
	KeyRedisAddr     = "GREENTHUMB_REDIS_ADDR"
	KeyRedisPassword = "GREENTHUMB_REDIS_PASSWORD"
	KeyRedisDB       = "GREENTHUMB_REDIS_DB"
	KeySpeechCommand = "GREENTHUMB_SPEECH_COMMAND"
	KeyTimeout       = "GREENTHUMB_TIMEOUT"
)

// defaultModels is the model used per provider when GREENTHUMB_MODEL is unset.
var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

// ConfigurationService resolves settings from the layered configuration map held by the
// global context. Priority (highest to lowest): CLI flags > environment > ./.env >
// ~/.config/greenthumb/.env > defaults.
type ConfigurationService struct {
	initialized bool
}

// NewConfigurationService creates a new ConfigurationService instance.
func NewConfigurationService() *ConfigurationService {
	return &ConfigurationService{}
}

// Name returns the service name "configuration" for registration.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// Initialize loads every configuration layer into the global context.
// Values already present (set from CLI flags) are re-applied on top.
func (c *ConfigurationService) Initialize() error {
	if c.initialized {
		return nil
	}

	ctx := greenthumbcontext.GetGlobalContext()
	overrides := ctx.GetConfigMap()
	ctx.SetConfigMap(make(map[string]string))

	if err := ctx.LoadDefaults(); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := ctx.LoadConfigDotEnv(); err != nil {
		return fmt.Errorf("failed to load config .env: %w", err)
	}
	if err := ctx.LoadLocalDotEnv(); err != nil {
		return fmt.Errorf("failed to load local .env: %w", err)
	}
	if err := ctx.LoadEnvironmentVariables(envPrefixes); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range overrides {
		if value != "" {
			ctx.SetConfigValue(key, value)
		}
	}

	c.initialized = true
	return nil
}

// GetConfigValue returns a configuration value, or "" when unset.
func (c *ConfigurationService) GetConfigValue(key string) string {
	value, _ := greenthumbcontext.GetGlobalContext().GetConfigValue(key)
	return strings.TrimSpace(value)
}

// SetConfigValue sets a configuration value.
func (c *ConfigurationService) SetConfigValue(key, value string) {
	greenthumbcontext.GetGlobalContext().SetConfigValue(key, value)
}

// GetProvider returns the selected completion provider (gemini by default).
func (c *ConfigurationService) GetProvider() string {
	provider := strings.ToLower(c.GetConfigValue(KeyProvider))
	if provider == "" {
		return ProviderGemini
	}
	return provider
}

// GetModel returns the configured model, or the provider's default model.
func (c *ConfigurationService) GetModel(provider string) string {
	if model := c.GetConfigValue(KeyModel); model != "" {
		return model
	}
	return defaultModels[provider]
}

// GetAPIKey resolves the API key for provider. Lookup order is
// GREENTHUMB_<PROVIDER>_API_KEY, then <PROVIDER>_API_KEY, then API_KEY for gemini.
func (c *ConfigurationService) GetAPIKey(provider string) (string, error) {
	upper := strings.ToUpper(provider)
	candidates := []string{
		fmt.Sprintf("GREENTHUMB_%s_API_KEY", upper),
		fmt.Sprintf("%s_API_KEY", upper),
	}
	if provider == ProviderGemini {
		candidates = append(candidates, "API_KEY")
	}

	for _, key := range candidates {
		if value := c.GetConfigValue(key); value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf("%w for provider %s (set %s)", ErrMissingAPIKey, provider, candidates[0])
}

// GetStoreConfig returns the key-value store settings.
func (c *ConfigurationService) GetStoreConfig() storage.Config {
	redisDB, err := strconv.Atoi(c.GetConfigValue(KeyRedisDB))
	if err != nil {
		redisDB = 0
	}
	return storage.Config{
		Backend:       c.GetConfigValue(KeyStore),
		SQLitePath:    c.GetConfigValue(KeySQLitePath),
		RedisAddr:     c.GetConfigValue(KeyRedisAddr),
		RedisPassword: c.GetConfigValue(KeyRedisPassword),
		RedisDB:       redisDB,
	}
}

// GetSpeechCommand returns the external speech-to-text command, or "".
func (c *ConfigurationService) GetSpeechCommand() string {
	return c.GetConfigValue(KeySpeechCommand)
}

// GetTimeout returns the per-request timeout; zero means no deadline.
func (c *ConfigurationService) GetTimeout() time.Duration {
	value := c.GetConfigValue(KeyTimeout)
	if value == "" {
		return 0
	}
	timeout, err := time.ParseDuration(value)
	if err != nil || timeout < 0 {
		return 0
	}
	return timeout
}

// GetGlobalConfigurationService returns the registered configuration service.
func GetGlobalConfigurationService() (*ConfigurationService, error) {
	return getGlobalService[*ConfigurationService]("configuration")
}
