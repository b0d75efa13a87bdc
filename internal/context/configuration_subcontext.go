package context

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"greenthumb/pkg/gardentypes"
)

// ConfigurationSubcontext manages the configuration map, environment variables and .env files.
type ConfigurationSubcontext interface {
	gardentypes.ConfigurationContext

	ClearTestEnvOverride(key string)
	SetParentContext(parent TestModeProvider)
	GetWorkingDir() (string, error)
	FileExists(path string) bool
}

// TestModeProvider allows subcontexts to check test mode from the parent context.
type TestModeProvider interface {
	IsTestMode() bool
}

// configurationSubcontext implements the ConfigurationSubcontext interface.
type configurationSubcontext struct {
	configMap   map[string]string
	configMutex sync.RWMutex

	parentContext    TestModeProvider
	testEnvOverrides map[string]string
	testWorkingDir   string
	testMutex        sync.RWMutex
}

// NewConfigurationSubcontext creates a new ConfigurationSubcontext instance.
func NewConfigurationSubcontext() ConfigurationSubcontext {
	return &configurationSubcontext{
		configMap:        make(map[string]string),
		testEnvOverrides: make(map[string]string),
	}
}

// IsTestMode returns whether the parent context is in test mode.
func (c *configurationSubcontext) IsTestMode() bool {
	c.testMutex.RLock()
	parent := c.parentContext
	c.testMutex.RUnlock()

	if parent != nil {
		return parent.IsTestMode()
	}
	return false
}

// GetConfigMap returns a copy of the configuration map.
func (c *configurationSubcontext) GetConfigMap() map[string]string {
	c.configMutex.RLock()
	defer c.configMutex.RUnlock()

	result := make(map[string]string, len(c.configMap))
	for key, value := range c.configMap {
		result[key] = value
	}
	return result
}

// SetConfigMap replaces the entire configuration map.
func (c *configurationSubcontext) SetConfigMap(configMap map[string]string) {
	c.configMutex.Lock()
	defer c.configMutex.Unlock()

	c.configMap = make(map[string]string, len(configMap))
	for key, value := range configMap {
		c.configMap[key] = value
	}
}

// GetConfigValue retrieves a configuration value by key.
func (c *configurationSubcontext) GetConfigValue(key string) (string, bool) {
	c.configMutex.RLock()
	defer c.configMutex.RUnlock()

	value, exists := c.configMap[key]
	return value, exists
}

// SetConfigValue sets a configuration value.
func (c *configurationSubcontext) SetConfigValue(key, value string) {
	c.configMutex.Lock()
	defer c.configMutex.Unlock()

	c.configMap[key] = value
}

// LoadDefaults sets up default configuration values.
func (c *configurationSubcontext) LoadDefaults() error {
	defaults := map[string]string{
		"GREENTHUMB_PROVIDER": "gemini",
		"GREENTHUMB_STORE":    "sqlite",
		"GREENTHUMB_REDIS_DB": "0",
	}

	for key, value := range defaults {
		c.SetConfigValue(key, value)
	}
	return nil
}

// LoadConfigDotEnv loads the .env file from the user's config directory (~/.config/greenthumb/.env).
func (c *configurationSubcontext) LoadConfigDotEnv() error {
	if c.IsTestMode() {
		return nil
	}

	configDir, err := c.GetUserConfigDir()
	if err != nil {
		// Config directory access failure is not fatal
		return nil
	}

	envPath := filepath.Join(configDir, ".env")
	if !c.FileExists(envPath) {
		return nil
	}

	return c.loadDotEnvFile(envPath)
}

// LoadLocalDotEnv loads the .env file from the working directory.
func (c *configurationSubcontext) LoadLocalDotEnv() error {
	workDir, err := c.GetWorkingDir()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	envPath := filepath.Join(workDir, ".env")
	if !c.FileExists(envPath) {
		return nil
	}

	return c.loadDotEnvFile(envPath)
}

// LoadEnvironmentVariables copies environment variables whose name starts with one of
// prefixes into the configuration map. This layer overrides all file-based configuration.
// In test mode only test overrides are consulted.
func (c *configurationSubcontext) LoadEnvironmentVariables(prefixes []string) error {
	if c.IsTestMode() {
		for key, value := range c.GetTestEnvOverrides() {
			if hasAnyPrefix(key, prefixes) {
				c.SetConfigValue(key, value)
			}
		}
		return nil
	}

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if hasAnyPrefix(parts[0], prefixes) {
			c.SetConfigValue(parts[0], parts[1])
		}
	}
	return nil
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// loadDotEnvFile parses envPath with godotenv and stores every value in the configuration map.
func (c *configurationSubcontext) loadDotEnvFile(envPath string) error {
	data, err := os.ReadFile(envPath)
	if err != nil {
		return fmt.Errorf("failed to read .env file %s: %w", envPath, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", envPath, err)
	}

	for key, value := range envMap {
		c.SetConfigValue(key, value)
	}
	return nil
}

// GetEnv returns an environment variable; in test mode only test overrides are visible.
func (c *configurationSubcontext) GetEnv(key string) string {
	if c.IsTestMode() {
		c.testMutex.RLock()
		defer c.testMutex.RUnlock()
		return c.testEnvOverrides[key]
	}
	return os.Getenv(key)
}

// SetTestEnvOverride sets a test-specific environment variable override.
func (c *configurationSubcontext) SetTestEnvOverride(key, value string) {
	c.testMutex.Lock()
	defer c.testMutex.Unlock()
	c.testEnvOverrides[key] = value
}

// ClearTestEnvOverride removes a test-specific environment variable override.
func (c *configurationSubcontext) ClearTestEnvOverride(key string) {
	c.testMutex.Lock()
	defer c.testMutex.Unlock()
	delete(c.testEnvOverrides, key)
}

// ClearAllTestEnvOverrides removes all test-specific environment variable overrides.
func (c *configurationSubcontext) ClearAllTestEnvOverrides() {
	c.testMutex.Lock()
	defer c.testMutex.Unlock()
	c.testEnvOverrides = make(map[string]string)
}

// GetTestEnvOverrides returns a copy of all test environment variable overrides.
func (c *configurationSubcontext) GetTestEnvOverrides() map[string]string {
	c.testMutex.RLock()
	defer c.testMutex.RUnlock()

	overrides := make(map[string]string, len(c.testEnvOverrides))
	for key, value := range c.testEnvOverrides {
		overrides[key] = value
	}
	return overrides
}

// SetTestWorkingDir sets the working directory reported in test mode.
func (c *configurationSubcontext) SetTestWorkingDir(path string) {
	c.testMutex.Lock()
	defer c.testMutex.Unlock()
	c.testWorkingDir = path
}

// SetParentContext sets the parent context reference for accessing test mode.
func (c *configurationSubcontext) SetParentContext(parent TestModeProvider) {
	c.testMutex.Lock()
	defer c.testMutex.Unlock()
	c.parentContext = parent
}

// GetUserConfigDir returns the GreenThumb configuration directory.
// In test mode, returns a fixed temporary path to avoid polluting the user's system.
func (c *configurationSubcontext) GetUserConfigDir() (string, error) {
	if c.IsTestMode() {
		return filepath.Join(os.TempDir(), "greenthumb-test-config"), nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configHome, "greenthumb"), nil
}

// GetWorkingDir returns the current working directory, or the test override in test mode.
func (c *configurationSubcontext) GetWorkingDir() (string, error) {
	if c.IsTestMode() {
		c.testMutex.RLock()
		testWorkDir := c.testWorkingDir
		c.testMutex.RUnlock()

		if testWorkDir != "" {
			return testWorkDir, nil
		}
		return filepath.Join(os.TempDir(), "greenthumb-test-workdir"), nil
	}

	return os.Getwd()
}

// FileExists checks if a file or directory exists at the given path.
func (c *configurationSubcontext) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
