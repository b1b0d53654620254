package weather

// Condition is one weather condition entry.
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Metrics groups the main temperature readings.
type Metrics struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// Wind holds wind readings.
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

// Clouds holds cloud cover percentage.
type Clouds struct {
	All int `json:"all"`
}

// Sys carries country and sun times for a current-weather reading.
type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// CurrentWeather is the provider's current-conditions record.
type CurrentWeather struct {
	Name       string      `json:"name"`
	Sys        Sys         `json:"sys"`
	Weather    []Condition `json:"weather"`
	Main       Metrics     `json:"main"`
	Wind       Wind        `json:"wind"`
	Clouds     Clouds      `json:"clouds"`
	Visibility int         `json:"visibility"`
	Dt         int64       `json:"dt"`
}

// ForecastEntry is one 3-hour forecast slot.
type ForecastEntry struct {
	Dt      int64       `json:"dt"`
	Main    Metrics     `json:"main"`
	Weather []Condition `json:"weather"`
}

// ForecastCity identifies the city a forecast belongs to.
type ForecastCity struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Forecast is the provider's 5-day / 3-hour forecast record.
type Forecast struct {
	City ForecastCity    `json:"city"`
	List []ForecastEntry `json:"list"`
}

// AirQualityEntry is one air pollution reading.
type AirQualityEntry struct {
	Main struct {
		AQI int `json:"aqi"`
	} `json:"main"`
	Components map[string]float64 `json:"components"`
}

// AirQuality is the provider's air pollution record.
type AirQuality struct {
	List []AirQualityEntry `json:"list"`
}

// Location is one geocoding candidate.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
