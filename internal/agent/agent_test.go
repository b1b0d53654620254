package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/stratus-agent/stratus/internal/llm"
	"github.com/stratus-agent/stratus/internal/weather"
)

// fakeWeather is a scriptable WeatherService.
type fakeWeather struct {
	current    map[string]*weather.CurrentWeather
	forecast   map[string]*weather.Forecast
	airQuality *weather.AirQuality
	locations  []weather.Location
	geocodeErr error
	airErr     error
}

func (f *fakeWeather) Current(_ context.Context, city string) (*weather.CurrentWeather, error) {
	if data, ok := f.current[city]; ok {
		return data, nil
	}
	return nil, status.Error(codes.NotFound, "location not found")
}

func (f *fakeWeather) Forecast(_ context.Context, city string) (*weather.Forecast, error) {
	if data, ok := f.forecast[city]; ok {
		return data, nil
	}
	return nil, status.Error(codes.NotFound, "location not found")
}

func (f *fakeWeather) AirQuality(_ context.Context, _, _ float64) (*weather.AirQuality, error) {
	if f.airErr != nil {
		return nil, f.airErr
	}
	return f.airQuality, nil
}

func (f *fakeWeather) Geocode(_ context.Context, _ string) ([]weather.Location, error) {
	if f.geocodeErr != nil {
		return nil, f.geocodeErr
	}
	return f.locations, nil
}

func testCurrent(name, country string, temp float64) *weather.CurrentWeather {
	return &weather.CurrentWeather{
		Name: name,
		Sys:  weather.Sys{Country: country, Sunrise: 1700000000, Sunset: 1700040000},
		Weather: []weather.Condition{
			{Main: "Clear", Description: "clear sky", Icon: "01d"},
		},
		Main:       weather.Metrics{Temp: temp, FeelsLike: temp - 1, Pressure: 1013, Humidity: 60},
		Wind:       weather.Wind{Speed: 3.5},
		Clouds:     weather.Clouds{All: 10},
		Visibility: 10000,
	}
}

func testForecast(name, country string) *weather.Forecast {
	entries := make([]weather.ForecastEntry, 0, 16)
	for i := 0; i < 16; i++ {
		entries = append(entries, weather.ForecastEntry{
			Dt:      1700000000 + int64(i)*10800,
			Main:    weather.Metrics{Temp: 10 + float64(i%8)},
			Weather: []weather.Condition{{Description: "scattered clouds", Icon: "03d"}},
		})
	}
	return &weather.Forecast{
		City: weather.ForecastCity{Name: name, Country: country},
		List: entries,
	}
}

func TestCurrentWeather(t *testing.T) {
	ws := &fakeWeather{current: map[string]*weather.CurrentWeather{
		"London": testCurrent("London", "GB", 15.0),
	}}
	a := New(ws, &llm.MockProvider{Response: "ok"}, "test-model")

	got := a.CurrentWeather(context.Background(), "London")
	if !strings.Contains(got, "Current Weather in London, GB") {
		t.Errorf("response missing city header: %q", got)
	}
	if !strings.Contains(got, "15.0°C") {
		t.Errorf("response missing temperature: %q", got)
	}
}

func TestCurrentWeatherNotFound(t *testing.T) {
	a := New(&fakeWeather{}, &llm.MockProvider{}, "test-model")

	got := a.CurrentWeather(context.Background(), "Atlantis")
	want := "❌ City 'Atlantis' not found. Please check the spelling or try adding a country code (e.g., 'Paris,FR')."
	if got != want {
		t.Errorf("CurrentWeather not-found = %q, want %q", got, want)
	}
}

func TestForecastWeatherNotFound(t *testing.T) {
	a := New(&fakeWeather{}, &llm.MockProvider{}, "test-model")

	got := a.ForecastWeather(context.Background(), "Atlantis", 3)
	if got != "❌ City 'Atlantis' not found." {
		t.Errorf("ForecastWeather not-found = %q", got)
	}
}

func TestNotFoundMessagesDiffer(t *testing.T) {
	a := New(&fakeWeather{}, &llm.MockProvider{}, "test-model")
	ctx := context.Background()

	current := a.CurrentWeather(ctx, "Atlantis")
	forecast := a.ForecastWeather(ctx, "Atlantis", 3)
	if current == forecast {
		t.Errorf("current and forecast not-found messages should differ, both %q", current)
	}
	if !strings.HasPrefix(current, "❌") || !strings.HasPrefix(forecast, "❌") {
		t.Errorf("not-found messages must carry the failure glyph: %q / %q", current, forecast)
	}
}

func TestAirQualityIndex(t *testing.T) {
	aq := &weather.AirQuality{}
	aq.List = []weather.AirQualityEntry{{
		Components: map[string]float64{"pm2_5": 12.5, "o3": 40.0},
	}}
	aq.List[0].Main.AQI = 2

	ws := &fakeWeather{
		locations:  []weather.Location{{Name: "Beijing", Country: "CN", Lat: 39.9, Lon: 116.4}},
		airQuality: aq,
	}
	a := New(ws, &llm.MockProvider{}, "test-model")

	got := a.AirQualityIndex(context.Background(), "Beijing")
	if !strings.Contains(got, "📍 **Beijing, CN**") {
		t.Errorf("response missing location banner: %q", got)
	}
	if !strings.Contains(got, "Fair") {
		t.Errorf("response missing AQI label: %q", got)
	}
}

func TestAirQualityIndexUnknownCity(t *testing.T) {
	a := New(&fakeWeather{}, &llm.MockProvider{}, "test-model")

	got := a.AirQualityIndex(context.Background(), "Atlantis")
	if got != "❌ City 'Atlantis' not found." {
		t.Errorf("AirQualityIndex unknown city = %q", got)
	}
}

func TestRecommendations(t *testing.T) {
	ws := &fakeWeather{current: map[string]*weather.CurrentWeather{
		"Oslo": testCurrent("Oslo", "NO", -2.0),
	}}
	a := New(ws, &llm.MockProvider{Response: "Wear a warm coat."}, "test-model")

	got := a.Recommendations(context.Background(), "Oslo")
	if !strings.Contains(got, "## 🎯 Recommendations") {
		t.Errorf("response missing recommendations section: %q", got)
	}
	if !strings.Contains(got, "Wear a warm coat.") {
		t.Errorf("response missing AI output: %q", got)
	}
	if !strings.Contains(got, "Current Weather in Oslo, NO") {
		t.Errorf("response missing weather section: %q", got)
	}
}

func TestRecommendationsAIDegrades(t *testing.T) {
	ws := &fakeWeather{current: map[string]*weather.CurrentWeather{
		"Oslo": testCurrent("Oslo", "NO", -2.0),
	}}
	a := New(ws, &llm.FailingMockProvider{Err: errors.New("model offline")}, "test-model")

	got := a.Recommendations(context.Background(), "Oslo")
	if !strings.Contains(got, "AI analysis unavailable") {
		t.Errorf("AI failure should degrade, got %q", got)
	}
	if !strings.Contains(got, "Current Weather in Oslo, NO") {
		t.Errorf("weather section must survive AI failure: %q", got)
	}
}

func TestCompareWeather(t *testing.T) {
	ws := &fakeWeather{current: map[string]*weather.CurrentWeather{
		"London": testCurrent("London", "GB", 12.0),
		"Paris":  testCurrent("Paris", "FR", 17.5),
	}}
	a := New(ws, &llm.MockProvider{}, "test-model")

	got := a.CompareWeather(context.Background(), "London", "Paris")
	if !strings.Contains(got, "# 🌍 Weather Comparison") {
		t.Errorf("response missing comparison header: %q", got)
	}
	if !strings.Contains(got, "| Metric | London, GB | Paris, FR |") {
		t.Errorf("response missing table header: %q", got)
	}
	if !strings.Contains(got, "**Summary:** Paris, FR is warmer by 5.5°C") {
		t.Errorf("response missing summary line: %q", got)
	}
}

func TestCompareWeatherError(t *testing.T) {
	a := New(&fakeWeather{}, &llm.MockProvider{}, "test-model")

	got := a.CompareWeather(context.Background(), "Atlantis", "Paris")
	if !strings.HasPrefix(got, "❌ Error comparing weather:") {
		t.Errorf("CompareWeather error = %q", got)
	}
}

func TestQueryWithCity(t *testing.T) {
	ws := &fakeWeather{current: map[string]*weather.CurrentWeather{
		"Denver": testCurrent("Denver", "US", 22.0),
	}}
	script := llm.NewScriptedMockProvider("Denver", "Great day for hiking!")
	a := New(ws, script, "test-model")

	got := a.Query(context.Background(), "Is it a good day for hiking in Denver?")
	if got != "Great day for hiking!" {
		t.Errorf("Query = %q", got)
	}
	if script.CallCount != 2 {
		t.Errorf("Query should make 2 AI calls, made %d", script.CallCount)
	}
}

func TestQueryNoCity(t *testing.T) {
	script := llm.NewScriptedMockProvider("NONE", "Which city are you interested in?")
	a := New(&fakeWeather{}, script, "test-model")

	got := a.Query(context.Background(), "Will it rain this weekend?")
	if got != "Which city are you interested in?" {
		t.Errorf("Query = %q", got)
	}
}

func TestWeatherSummary(t *testing.T) {
	aq := &weather.AirQuality{}
	aq.List = []weather.AirQualityEntry{{Components: map[string]float64{"pm10": 8.0}}}
	aq.List[0].Main.AQI = 1

	ws := &fakeWeather{
		current:    map[string]*weather.CurrentWeather{"Sydney": testCurrent("Sydney", "AU", 24.0)},
		forecast:   map[string]*weather.Forecast{"Sydney": testForecast("Sydney", "AU")},
		locations:  []weather.Location{{Name: "Sydney", Country: "AU", Lat: -33.9, Lon: 151.2}},
		airQuality: aq,
	}
	a := New(ws, &llm.MockProvider{Response: "A lovely day outside."}, "test-model")

	got := a.WeatherSummary(context.Background(), "Sydney")
	for _, section := range []string{
		"# 📊 Complete Weather Summary",
		"## Current Conditions",
		"## Air Quality",
		"## 🤖 AI Insights",
		"A lovely day outside.",
	} {
		if !strings.Contains(got, section) {
			t.Errorf("summary missing %q:\n%s", section, got)
		}
	}
}

func TestWeatherSummaryAirQualityDegrades(t *testing.T) {
	ws := &fakeWeather{
		current:    map[string]*weather.CurrentWeather{"Sydney": testCurrent("Sydney", "AU", 24.0)},
		forecast:   map[string]*weather.Forecast{"Sydney": testForecast("Sydney", "AU")},
		geocodeErr: errors.New("geocoder down"),
	}
	a := New(ws, &llm.MockProvider{Response: "Fine."}, "test-model")

	got := a.WeatherSummary(context.Background(), "Sydney")
	if strings.Contains(got, "## Air Quality") {
		t.Errorf("air quality section should be dropped when geocoding fails:\n%s", got)
	}
	if !strings.Contains(got, "## 🤖 AI Insights") {
		t.Errorf("AI insights must survive air-quality failure:\n%s", got)
	}
}
