// Package agentcard builds and serves the agent discovery document at
// /.well-known/agent.json.
package agentcard

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// Capabilities advertises the transport features the agent supports.
type Capabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

// Skill is one advertised capability with routing hints for callers.
type Skill struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Examples    []string `json:"examples" yaml:"examples"`
}

// Card is the agent discovery document.
type Card struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	URL                string       `json:"url"`
	Version            string       `json:"version"`
	Capabilities       Capabilities `json:"capabilities"`
	DefaultInputModes  []string     `json:"defaultInputModes"`
	DefaultOutputModes []string     `json:"defaultOutputModes"`
	Skills             []Skill      `json:"skills"`
}

//go:embed skills.yaml
var skillsYAML []byte

// contentTypes are the part payloads the agent accepts and produces.
var contentTypes = []string{"text", "text/plain"}

// New builds the card for the given public base URL.
func New(url, version string) (*Card, error) {
	var manifest struct {
		Skills []Skill `yaml:"skills"`
	}
	if err := yaml.Unmarshal(skillsYAML, &manifest); err != nil {
		return nil, fmt.Errorf("parse skill manifest: %w", err)
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return &Card{
		Name: "Weather AI Agent",
		Description: "AI-powered weather assistant providing current conditions, forecasts, " +
			"air quality, recommendations, and city comparisons. " +
			"Powered by OpenWeatherMap and Gemini AI.",
		URL:                url,
		Version:            version,
		Capabilities:       Capabilities{Streaming: false, PushNotifications: false},
		DefaultInputModes:  contentTypes,
		DefaultOutputModes: contentTypes,
		Skills:             manifest.Skills,
	}, nil
}

// Handler serves the card as JSON.
func (c *Card) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c)
	})
}
