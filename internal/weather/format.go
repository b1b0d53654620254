package weather

import (
	"fmt"
	"strings"
	"time"
)

var separator = strings.Repeat("━", 34)

// FormatCurrent renders a current-weather record as markdown.
func FormatCurrent(data *CurrentWeather) string {
	cond := firstCondition(data.Weather)
	description := capitalize(cond.Description)
	icon := Emoji(cond.Icon)

	sunrise := time.Unix(data.Sys.Sunrise, 0).Format("15:04")
	sunset := time.Unix(data.Sys.Sunset, 0).Format("15:04")

	var b strings.Builder
	fmt.Fprintf(&b, "%s **Current Weather in %s, %s**\n", icon, data.Name, data.Sys.Country)
	b.WriteString(separator + "\n\n")
	fmt.Fprintf(&b, "**Condition:** %s\n", description)
	fmt.Fprintf(&b, "**Temperature:** %.1f°C (Feels like %.1f°C)\n", data.Main.Temp, data.Main.FeelsLike)
	fmt.Fprintf(&b, "**Humidity:** %d%%\n", data.Main.Humidity)
	fmt.Fprintf(&b, "**Wind:** %g m/s\n", data.Wind.Speed)
	fmt.Fprintf(&b, "**Pressure:** %d hPa\n", data.Main.Pressure)
	fmt.Fprintf(&b, "**Cloud Cover:** %d%%\n", data.Clouds.All)
	fmt.Fprintf(&b, "**Visibility:** %.1f km\n\n", float64(data.Visibility)/1000)
	fmt.Fprintf(&b, "🌅 Sunrise: %s | 🌇 Sunset: %s", sunrise, sunset)
	return b.String()
}

// FormatForecast renders the first `days` days of a forecast as markdown.
func FormatForecast(data *Forecast, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 **%d-Day Forecast for %s, %s**\n", days, data.City.Name, data.City.Country)
	b.WriteString(strings.Repeat("━", 40))

	// Group the 3-hour slots by calendar day, preserving order.
	var order []string
	byDay := make(map[string][]ForecastEntry)
	for _, entry := range data.List {
		key := time.Unix(entry.Dt, 0).Format("2006-01-02")
		if _, ok := byDay[key]; !ok {
			order = append(order, key)
		}
		byDay[key] = append(byDay[key], entry)
	}
	if len(order) > days {
		order = order[:days]
	}

	for _, key := range order {
		entries := byDay[key]
		day, _ := time.Parse("2006-01-02", key)

		minTemp, maxTemp := entries[0].Main.Temp, entries[0].Main.Temp
		for _, e := range entries[1:] {
			if e.Main.Temp < minTemp {
				minTemp = e.Main.Temp
			}
			if e.Main.Temp > maxTemp {
				maxTemp = e.Main.Temp
			}
		}

		// Midday slot is the most representative condition for the day.
		cond := firstCondition(entries[len(entries)/2].Weather)

		fmt.Fprintf(&b, "\n\n**%s** %s\n", day.Format("Monday, Jan 02"), Emoji(cond.Icon))
		fmt.Fprintf(&b, "  %s\n", capitalize(cond.Description))
		fmt.Fprintf(&b, "  🌡️ %.0f°C - %.0f°C", minTemp, maxTemp)
	}
	return b.String()
}

// FormatAirQuality renders an air pollution record as markdown.
func FormatAirQuality(data *AirQuality) string {
	if data == nil || len(data.List) == 0 {
		return "No air quality data available."
	}
	entry := data.List[0]
	label, emoji := aqiLabel(entry.Main.AQI)

	var b strings.Builder
	fmt.Fprintf(&b, "%s **Air Quality Index: %d (%s)**\n", emoji, entry.Main.AQI, label)
	b.WriteString(separator + "\n\n")
	b.WriteString("**Pollutant Levels:**\n")
	fmt.Fprintf(&b, "• CO: %.1f μg/m³\n", entry.Components["co"])
	fmt.Fprintf(&b, "• NO₂: %.1f μg/m³\n", entry.Components["no2"])
	fmt.Fprintf(&b, "• O₃: %.1f μg/m³\n", entry.Components["o3"])
	fmt.Fprintf(&b, "• PM2.5: %.1f μg/m³\n", entry.Components["pm2_5"])
	fmt.Fprintf(&b, "• PM10: %.1f μg/m³\n", entry.Components["pm10"])
	fmt.Fprintf(&b, "• SO₂: %.1f μg/m³", entry.Components["so2"])
	return b.String()
}

// aqiLabel maps the provider's 1-5 AQI scale to a label and marker.
func aqiLabel(aqi int) (string, string) {
	switch aqi {
	case 1:
		return "Good", "🟢"
	case 2:
		return "Fair", "🟡"
	case 3:
		return "Moderate", "🟠"
	case 4:
		return "Poor", "🔴"
	case 5:
		return "Very Poor", "🟣"
	default:
		return "Unknown", "⚪"
	}
}

var iconEmoji = map[string]string{
	"01d": "☀️",
	"01n": "🌙",
	"02d": "⛅",
	"02n": "☁️",
	"03d": "☁️",
	"03n": "☁️",
	"04d": "☁️",
	"04n": "☁️",
	"09d": "🌧️",
	"09n": "🌧️",
	"10d": "🌦️",
	"10n": "🌧️",
	"11d": "⛈️",
	"11n": "⛈️",
	"13d": "❄️",
	"13n": "❄️",
	"50d": "🌫️",
	"50n": "🌫️",
}

// Emoji converts a provider icon code to an emoji.
func Emoji(icon string) string {
	if e, ok := iconEmoji[icon]; ok {
		return e
	}
	return "🌤️"
}

func firstCondition(conditions []Condition) Condition {
	if len(conditions) == 0 {
		return Condition{Description: "Unknown"}
	}
	return conditions[0]
}

func capitalize(s string) string {
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
