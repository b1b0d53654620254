// Package config loads server configuration from defaults, an optional YAML
// file, and STRATUS_-prefixed environment variables, in that order.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Weather   WeatherConfig   `koanf:"weather"`
	LLM       LLMConfig       `koanf:"llm"`
	MCP       MCPConfig       `koanf:"mcp"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// PublicURL overrides the host:port-derived URL in the agent card.
	PublicURL string `koanf:"public_url"`
	// AuthToken, when set, requires a matching bearer token on RPC calls.
	AuthToken string `koanf:"auth_token"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type WeatherConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	GeoURL  string `koanf:"geo_url"`
	Units   string `koanf:"units"`
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // gemini, ollama, mock
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type MCPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // none, stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("server.host", "0.0.0.0")
	k.Set("server.port", 8000)
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("weather.base_url", "https://api.openweathermap.org/data/2.5")
	k.Set("weather.geo_url", "https://api.openweathermap.org/geo/1.0")
	k.Set("weather.units", "metric")
	k.Set("llm.provider", "gemini")
	k.Set("llm.model", "gemini-2.0-flash")
	k.Set("llm.base_url", "http://localhost:11434")
	k.Set("mcp.enabled", false)
	k.Set("mcp.addr", ":8081")
	k.Set("telemetry.exporter", "none")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (STRATUS_WEATHER_API_KEY -> weather.api_key)
	if err := k.Load(env.Provider("STRATUS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "STRATUS_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration can actually start the agent.
func (c *Config) Validate() error {
	if c.Weather.APIKey == "" {
		return fmt.Errorf("weather.api_key is required (set STRATUS_WEATHER_API_KEY)")
	}
	switch c.LLM.Provider {
	case "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for the gemini provider (set STRATUS_LLM_API_KEY)")
		}
	case "ollama", "mock":
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	return nil
}

// ListenAddr is the host:port pair the RPC server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CardURL is the base URL advertised in the agent card.
func (c *Config) CardURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/") + "/"
	}
	return fmt.Sprintf("http://%s:%d/", c.Server.Host, c.Server.Port)
}
