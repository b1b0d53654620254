package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stratus-agent/stratus/internal/protocol"
	"github.com/stratus-agent/stratus/internal/telemetry"
)

// Executor adapts the Agent to the protocol handler: it extracts the user's
// text from whichever request shape arrived, classifies it, runs the matching
// skill and enqueues the response.
type Executor struct {
	agent   *Agent
	logger  *slog.Logger
	metrics *telemetry.RequestMetrics
}

// ExecutorOption configures optional executor collaborators.
type ExecutorOption func(*Executor)

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// WithMetrics enables per-skill counters.
func WithMetrics(m *telemetry.RequestMetrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// NewExecutor creates an executor around the given agent.
func NewExecutor(a *Agent, opts ...ExecutorOption) *Executor {
	e := &Executor{agent: a, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// extractQuery recovers the user's text from the request context. Strategies
// run in order of reliability; the first non-empty result wins. Returns ""
// when no strategy yields text, never an error.
func extractQuery(rc *protocol.RequestContext) string {
	strategies := []func() string{
		func() string { return rc.OverrideText },
		func() string { return rc.UserInput() },
		func() string { return protocol.FirstText(rc.Message) },
		func() string { return protocol.FirstText(rc.Internal) },
		func() string {
			if rc.Request == nil {
				return ""
			}
			return protocol.FirstText(&rc.Request.Message)
		},
	}
	for _, strategy := range strategies {
		if text := strings.TrimSpace(strategy()); text != "" {
			return text
		}
	}
	return ""
}

// Execute runs one turn: classify the query, dispatch the skill, enqueue the
// reply. Skill failures surface as formatted text, so the only error paths
// left are enqueue-side.
func (e *Executor) Execute(ctx context.Context, rc *protocol.RequestContext, queue *protocol.EventQueue) error {
	query := extractQuery(rc)
	e.logger.Debug("extracted query", "query", query, "task_id", rc.TaskID)

	if query == "" {
		queue.Enqueue(protocol.NewAgentTextMessage(helpMessage))
		return nil
	}

	intent := Classify(query)
	e.logger.Debug("classified intent",
		"skill", string(intent.Skill), "city", intent.City, "city2", intent.City2, "days", intent.Days)
	e.metrics.RecordSkill(ctx, string(intent.Skill))

	var response string
	switch intent.Skill {
	case SkillCurrent:
		response = e.agent.CurrentWeather(ctx, intent.City)
	case SkillForecast:
		response = e.agent.ForecastWeather(ctx, intent.City, intent.Days)
	case SkillAirQuality:
		response = e.agent.AirQualityIndex(ctx, intent.City)
	case SkillRecommendations:
		response = e.agent.Recommendations(ctx, intent.City)
	case SkillCompare:
		response = e.agent.CompareWeather(ctx, intent.City, intent.City2)
	case SkillSummary:
		response = e.agent.WeatherSummary(ctx, intent.City)
	default:
		response = e.agent.Query(ctx, intent.Question)
	}

	queue.Enqueue(protocol.NewAgentTextMessage(response))
	return nil
}

// Cancel acknowledges a cancellation request.
func (e *Executor) Cancel(ctx context.Context, rc *protocol.RequestContext, queue *protocol.EventQueue) error {
	queue.Enqueue(protocol.NewAgentTextMessage("Task cancelled."))
	return nil
}

const helpMessage = `# ☀️ Weather AI Agent

I'm your AI-powered weather assistant! Here's what I can do:

## 📋 Available Commands

### 🌡️ Current Weather
Get current conditions for any city:
- "Weather in London"
- "Temperature in Tokyo"
- "New York weather"

### 📅 Weather Forecast
Get up to 5-day forecast:
- "Forecast for Paris"
- "5 day forecast London"
- "What's the weather tomorrow in Berlin"

### 💨 Air Quality
Check air quality index:
- "Air quality in Delhi"
- "AQI Beijing"
- "Pollution in Los Angeles"

### 👕 Recommendations
Get clothing and activity suggestions:
- "What to wear in London"
- "Should I take an umbrella in Seattle"

### 🌍 Compare Cities
Compare weather between two cities:
- "Compare London and Paris"
- "Tokyo vs New York weather"

### 📊 Complete Summary
Get full weather report:
- "Weather summary for Sydney"
- "Complete weather report Tokyo"

### 💬 Natural Language
Ask anything about weather:
- "Is it a good day for hiking in Denver?"
- "Will it rain this weekend in Miami?"

---
**Tip:** Just type a city name for quick current weather!
`
