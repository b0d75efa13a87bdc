package gardentypes

// Context exposes the shared runtime state services rely on.
type Context interface {
	// IsTestMode reports whether deterministic IDs and timestamps should be used.
	IsTestMode() bool
	SetTestMode(testMode bool)

	ConfigurationContext
}

// ConfigurationContext holds the layered configuration map and the loaders that fill it.
type ConfigurationContext interface {
	GetConfigMap() map[string]string
	SetConfigMap(configMap map[string]string)
	GetConfigValue(key string) (string, bool)
	SetConfigValue(key, value string)

	LoadDefaults() error
	LoadConfigDotEnv() error
	LoadLocalDotEnv() error
	LoadEnvironmentVariables(prefixes []string) error

	GetEnv(key string) string
	SetTestEnvOverride(key, value string)
	ClearAllTestEnvOverrides()
	SetTestWorkingDir(path string)
	GetUserConfigDir() (string, error)
}

// Service defines the interface for GreenThumb services.
type Service interface {
	Name() string
	Initialize() error
}

// ServiceRegistry provides centralized service registration and retrieval.
type ServiceRegistry interface {
	GetService(name string) (Service, error)
	RegisterService(service Service) error
}
