package config

import (
	"net/url"
	"time"
)

// Server defaults.
const (
	DefaultPort            = "8080"
	DefaultDataDir         = "./cocktail_data"
	DefaultCocktailDBURL   = "https://www.thecocktaildb.com/api/json/v1/1"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultEnvironment     = "development"
	DefaultSessionIdleTTL  = 30 * time.Minute
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

// ServerSettings contains HTTP service and upstream client options.
type ServerSettings struct {
	Port            string        `json:"port" mapstructure:"port"`
	DataDir         string        `json:"data_dir" mapstructure:"data_dir"`               // Analytics snapshots are written here
	CocktailDBURL   string        `json:"cocktaildb_url" mapstructure:"cocktaildb_url"`   // Base URL of the public cocktail database API
	RequestTimeout  time.Duration `json:"request_timeout" mapstructure:"request_timeout"` // Per upstream HTTP request
	LogLevel        string        `json:"log_level" mapstructure:"log_level"`
	Environment     string        `json:"environment" mapstructure:"environment"`
	SessionIdleTTL  time.Duration `json:"session_idle_ttl" mapstructure:"session_idle_ttl"`
	BreakerFailures uint32        `json:"breaker_failures" mapstructure:"breaker_failures"` // Consecutive failures that open the upstream breaker
	BreakerTimeout  time.Duration `json:"breaker_timeout" mapstructure:"breaker_timeout"`   // How long the breaker stays open
}

// ApplyDefaults applies default values to the server settings
func (s *ServerSettings) ApplyDefaults() {
	if s.Port == "" {
		s.Port = DefaultPort
	}
	if s.DataDir == "" {
		s.DataDir = DefaultDataDir
	}
	if s.CocktailDBURL == "" {
		s.CocktailDBURL = DefaultCocktailDBURL
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	if s.Environment == "" {
		s.Environment = DefaultEnvironment
	}
	if s.SessionIdleTTL == 0 {
		s.SessionIdleTTL = DefaultSessionIdleTTL
	}
	if s.BreakerFailures == 0 {
		s.BreakerFailures = DefaultBreakerFailures
	}
	if s.BreakerTimeout == 0 {
		s.BreakerTimeout = DefaultBreakerTimeout
	}
}

// Validate checks the server settings and returns a list of problems.
func (s *ServerSettings) Validate() []string {
	var problems []string

	if u, err := url.Parse(s.CocktailDBURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, "Field 'cocktaildb_url' must be an absolute URL")
	}
	if s.RequestTimeout < 0 {
		problems = append(problems, "Field 'request_timeout' cannot be negative")
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "Invalid log_level '"+s.LogLevel+"' (must be debug, info, warn or error)")
	}

	return problems
}

// Settings is the complete service configuration.
type Settings struct {
	Server   ServerSettings   `json:"server" mapstructure:"server"`
	Pipeline PipelineSettings `json:"pipeline" mapstructure:"pipeline"`
}

// Default returns settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults applies defaults to every section
func (s *Settings) ApplyDefaults() {
	s.Server.ApplyDefaults()
	s.Pipeline.ApplyDefaults()
}

// Validate returns the problems of every section
func (s *Settings) Validate() []string {
	problems := s.Server.Validate()
	return append(problems, s.Pipeline.Validate()...)
}
