package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g. COCKTAIL_SERVER_PORT.
const EnvPrefix = "COCKTAIL"

// Load reads the configuration file at path (YAML or JSON, by extension) and applies
// environment overrides and defaults. An empty path loads defaults plus environment only.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind scalar keys so AutomaticEnv can see them during Unmarshal
	for _, key := range []string{
		"server.port", "server.data_dir", "server.cocktaildb_url", "server.request_timeout",
		"server.log_level", "server.environment", "server.session_idle_ttl",
		"pipeline.result_cap", "pipeline.page_size", "pipeline.hydration_limit",
		"pipeline.min_intersection", "pipeline.debounce_ms", "pipeline.hydration_workers",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found at %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Settings{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()

	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}
