// Package agent implements the weather assistant: the seven skills, the
// intent classifier that routes free text onto them, and the executor that
// binds both to the protocol layer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/stratus-agent/stratus/internal/llm"
	"github.com/stratus-agent/stratus/internal/weather"
)

// WeatherService is the weather-data capability the skills consume.
// *weather.Client satisfies it.
type WeatherService interface {
	Current(ctx context.Context, city string) (*weather.CurrentWeather, error)
	Forecast(ctx context.Context, city string) (*weather.Forecast, error)
	AirQuality(ctx context.Context, lat, lon float64) (*weather.AirQuality, error)
	Geocode(ctx context.Context, city string) ([]weather.Location, error)
}

// Agent combines weather data with AI-generated insights. Every skill
// returns user-facing text; capability failures are converted into
// formatted error messages, never propagated.
type Agent struct {
	weather WeatherService
	llm     llm.Provider
	model   string
}

// New creates the agent.
func New(ws WeatherService, provider llm.Provider, model string) *Agent {
	return &Agent{weather: ws, llm: provider, model: model}
}

// aiAnalyze runs one generation call. Failures degrade to a marker string
// so composite skills keep their non-AI sections.
func (a *Agent) aiAnalyze(ctx context.Context, prompt string) string {
	text, err := llm.Generate(ctx, a.llm, a.model, prompt)
	if err != nil {
		return fmt.Sprintf("AI analysis unavailable: %v", err)
	}
	return strings.TrimSpace(text)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// CurrentWeather returns formatted current conditions for a city.
func (a *Agent) CurrentWeather(ctx context.Context, city string) string {
	data, err := a.weather.Current(ctx, city)
	if err != nil {
		if isNotFound(err) {
			return fmt.Sprintf("❌ City '%s' not found. Please check the spelling or try adding a country code (e.g., 'Paris,FR').", city)
		}
		return fmt.Sprintf("❌ Error fetching weather for %s: %v", city, err)
	}
	return weather.FormatCurrent(data)
}

// ForecastWeather returns a formatted forecast. Days is clamped to [1,5].
func (a *Agent) ForecastWeather(ctx context.Context, city string, days int) string {
	days = min(max(days, 1), 5)
	data, err := a.weather.Forecast(ctx, city)
	if err != nil {
		if isNotFound(err) {
			return fmt.Sprintf("❌ City '%s' not found.", city)
		}
		return fmt.Sprintf("❌ Error fetching forecast for %s: %v", city, err)
	}
	return weather.FormatForecast(data, days)
}

// AirQualityIndex geocodes the city and returns formatted air quality.
func (a *Agent) AirQualityIndex(ctx context.Context, city string) string {
	locations, err := a.weather.Geocode(ctx, city)
	if err != nil {
		return fmt.Sprintf("❌ Error fetching air quality for %s: %v", city, err)
	}
	if len(locations) == 0 {
		return fmt.Sprintf("❌ City '%s' not found.", city)
	}
	loc := locations[0]

	data, err := a.weather.AirQuality(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return fmt.Sprintf("❌ Error fetching air quality for %s: %v", city, err)
	}
	return fmt.Sprintf("📍 **%s, %s**\n\n%s", loc.Name, loc.Country, weather.FormatAirQuality(data))
}

// Recommendations returns current conditions plus AI-generated clothing,
// activity and health suggestions.
func (a *Agent) Recommendations(ctx context.Context, city string) string {
	data, err := a.weather.Current(ctx, city)
	if err != nil {
		return fmt.Sprintf("❌ Error getting recommendations for %s: %v", city, err)
	}

	payload, _ := json.MarshalIndent(data, "", "  ")
	prompt := fmt.Sprintf(`Based on this weather data, provide brief, practical recommendations:

Weather Data:
%s

Provide:
1. **What to Wear** (2-3 items)
2. **Activities** (2-3 suggestions appropriate for this weather)
3. **Health Tips** (1-2 tips based on conditions)

Keep it concise and friendly!`, payload)

	recommendations := a.aiAnalyze(ctx, prompt)

	return fmt.Sprintf("%s\n\n---\n\n## 🎯 Recommendations\n\n%s", weather.FormatCurrent(data), recommendations)
}

// CompareWeather returns a side-by-side comparison of two cities.
func (a *Agent) CompareWeather(ctx context.Context, city1, city2 string) string {
	data1, err := a.weather.Current(ctx, city1)
	if err != nil {
		return fmt.Sprintf("❌ Error comparing weather: %v", err)
	}
	data2, err := a.weather.Current(ctx, city2)
	if err != nil {
		return fmt.Sprintf("❌ Error comparing weather: %v", err)
	}

	m1 := compareMetrics(data1)
	m2 := compareMetrics(data2)

	lines := []string{
		"# 🌍 Weather Comparison",
		"",
		fmt.Sprintf("| Metric | %s | %s |", m1.city, m2.city),
		"|--------|------------|------------|",
		fmt.Sprintf("| Condition | %s %s | %s %s |", m1.icon, m1.description, m2.icon, m2.description),
		fmt.Sprintf("| Temperature | %.1f°C | %.1f°C |", m1.temp, m2.temp),
		fmt.Sprintf("| Feels Like | %.1f°C | %.1f°C |", m1.feelsLike, m2.feelsLike),
		fmt.Sprintf("| Humidity | %d%% | %d%% |", m1.humidity, m2.humidity),
		fmt.Sprintf("| Wind | %g m/s | %g m/s |", m1.wind, m2.wind),
	}

	warmer := m1.city
	if m2.temp > m1.temp {
		warmer = m2.city
	}
	lines = append(lines, "", fmt.Sprintf("**Summary:** %s is warmer by %.1f°C", warmer, math.Abs(m1.temp-m2.temp)))

	return strings.Join(lines, "\n")
}

type cityMetrics struct {
	city        string
	temp        float64
	feelsLike   float64
	humidity    int
	wind        float64
	description string
	icon        string
}

func compareMetrics(data *weather.CurrentWeather) cityMetrics {
	cond := weather.Condition{Description: "Unknown"}
	if len(data.Weather) > 0 {
		cond = data.Weather[0]
	}
	description := cond.Description
	if description != "" {
		description = strings.ToUpper(description[:1]) + description[1:]
	}
	return cityMetrics{
		city:        fmt.Sprintf("%s, %s", data.Name, data.Sys.Country),
		temp:        data.Main.Temp,
		feelsLike:   data.Main.FeelsLike,
		humidity:    data.Main.Humidity,
		wind:        data.Wind.Speed,
		description: description,
		icon:        weather.Emoji(cond.Icon),
	}
}

// Query answers a natural-language weather question: one AI call extracts
// the city, an optional weather lookup adds context, a second AI call
// generates the answer.
func (a *Agent) Query(ctx context.Context, question string) string {
	extractPrompt := fmt.Sprintf(`Extract the city name from this weather question.
If no specific city is mentioned, respond with "NONE".
Only respond with the city name or "NONE", nothing else.

Question: %s`, question)

	cityResponse := strings.TrimSpace(a.aiAnalyze(ctx, extractPrompt))

	weatherContext := "No specific city mentioned"
	if cityResponse != "" && strings.ToUpper(cityResponse) != "NONE" {
		if data, err := a.weather.Current(ctx, cityResponse); err == nil {
			payload, _ := json.MarshalIndent(data, "", "  ")
			weatherContext = string(payload)
		} else {
			weatherContext = "Weather data unavailable"
		}
	}

	answerPrompt := fmt.Sprintf(`You are a friendly weather assistant. Answer this question:

Question: %s

Weather Data (if available):
%s

Provide a helpful, conversational answer. If no city was specified and the question needs one,
ask the user which city they're interested in.`, question, weatherContext)

	return a.aiAnalyze(ctx, answerPrompt)
}

// WeatherSummary returns the complete report: current conditions, 3-day
// forecast, air quality when resolvable, and AI insights. Failure of the
// air-quality sub-lookup drops that section instead of aborting.
func (a *Agent) WeatherSummary(ctx context.Context, city string) string {
	current, err := a.weather.Current(ctx, city)
	if err != nil {
		return fmt.Sprintf("❌ Error getting weather summary for %s: %v", city, err)
	}
	forecast, err := a.weather.Forecast(ctx, city)
	if err != nil {
		return fmt.Sprintf("❌ Error getting weather summary for %s: %v", city, err)
	}

	var airQuality *weather.AirQuality
	if locations, err := a.weather.Geocode(ctx, city); err == nil && len(locations) > 0 {
		if aq, err := a.weather.AirQuality(ctx, locations[0].Lat, locations[0].Lon); err == nil {
			airQuality = aq
		}
	}

	sections := []string{
		"# 📊 Complete Weather Summary",
		"",
		"## Current Conditions",
		weather.FormatCurrent(current),
		"",
		"---",
		"",
		weather.FormatForecast(forecast, 3),
	}

	if airQuality != nil {
		sections = append(sections, "", "---", "", "## Air Quality", weather.FormatAirQuality(airQuality))
	}

	mainPayload, _ := json.MarshalIndent(current.Main, "", "  ")
	description := "Unknown"
	if len(current.Weather) > 0 {
		description = current.Weather[0].Description
	}
	prompt := fmt.Sprintf(`Based on this weather data, provide a brief (2-3 sentence) overall assessment:

Current: %s
Conditions: %s

Is it a good day to be outside? Any weather concerns?`, mainPayload, description)

	sections = append(sections, "", "---", "", "## 🤖 AI Insights", a.aiAnalyze(ctx, prompt))

	return strings.Join(sections, "\n")
}
