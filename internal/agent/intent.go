package agent

import (
	"regexp"
	"strconv"
	"strings"
)

// Skill identifies one of the structured weather operations.
type Skill string

const (
	SkillCurrent         Skill = "current"
	SkillForecast        Skill = "forecast"
	SkillAirQuality      Skill = "air_quality"
	SkillRecommendations Skill = "recommendations"
	SkillCompare         Skill = "compare"
	SkillSummary         Skill = "summary"
	SkillQuery           Skill = "query"
)

// Intent is the classified (skill, parameters) pair for one utterance.
// Only the fields the skill requires are populated.
type Intent struct {
	Skill    Skill
	City     string
	City2    string
	Days     int
	Question string
}

// Ordered city patterns. First match wins; group 1 is the city, group 2 an
// optional two-letter country code.
var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:in|for|at)\s+([A-Za-z\s]+?)(?:\s*,\s*([A-Z]{2}))?\s*(?:\?|$|today|tomorrow|this|next)`),
	regexp.MustCompile(`(?i)(?:weather|forecast|temperature|air quality)\s+(?:in|for|at)?\s*([A-Za-z\s]+?)(?:\s*,\s*([A-Z]{2}))?\s*(?:\?|$)`),
	regexp.MustCompile(`(?i)([A-Za-z]+(?:\s+[A-Za-z]+)?)\s+weather`),
	regexp.MustCompile(`(?i)([A-Za-z]+(?:\s+[A-Za-z]+)?)\s+forecast`),
}

// capitalizedWords matches 1-2 word capitalized sequences for the fallback scan.
var capitalizedWords = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`)

// skipWords is the weather/query vocabulary excluded from the fallback scan.
var skipWords = map[string]struct{}{
	"weather": {}, "forecast": {}, "temperature": {}, "humidity": {}, "wind": {},
	"rain": {}, "snow": {}, "sunny": {}, "cloudy": {}, "air": {}, "quality": {},
	"today": {}, "tomorrow": {}, "what": {}, "how": {}, "is": {}, "the": {},
	"in": {}, "for": {}, "at": {}, "get": {}, "show": {}, "tell": {}, "me": {},
	"current": {}, "now": {}, "compare": {}, "vs": {}, "and": {}, "between": {},
}

// ExtractCity locates a city name in free text. A captured country code is
// appended as "City,CC". Returns "" when nothing matches.
func ExtractCity(text string) string {
	for _, pattern := range cityPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		city := strings.TrimSpace(m[1])
		if len(m) > 2 && m[2] != "" {
			return city + "," + m[2]
		}
		return city
	}

	// Fallback: first capitalized 1-2 word sequence that is not weather
	// or query vocabulary.
	for _, m := range capitalizedWords.FindAllStringSubmatch(text, -1) {
		if _, skip := skipWords[strings.ToLower(m[1])]; !skip {
			return m[1]
		}
	}
	return ""
}

var comparePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)compare\s+([A-Za-z\s]+?)\s+(?:and|vs|versus|with)\s+([A-Za-z\s]+)`),
	regexp.MustCompile(`(?i)([A-Za-z\s]+?)\s+(?:vs|versus)\s+([A-Za-z\s]+)`),
	regexp.MustCompile(`(?i)weather\s+(?:in\s+)?([A-Za-z\s]+?)\s+(?:and|vs|or)\s+([A-Za-z\s]+)`),
}

var daysPattern = regexp.MustCompile(`(\d+)\s*day`)

var (
	forecastWords       = []string{"forecast", "next few days", "this week", "tomorrow"}
	airQualityWords     = []string{"air quality", "aqi", "pollution", "smog"}
	recommendationWords = []string{"what to wear", "should i", "recommend", "suggestion", "umbrella", "jacket"}
	summaryWords        = []string{"summary", "complete", "full report", "everything", "all info"}
	currentWords        = []string{"weather", "temperature", "temp", "hot", "cold", "rain", "sunny", "cloudy", "humid"}
)

// Classify decides which skill an utterance invokes and with what
// parameters. Rules are evaluated in fixed priority order and the first
// match wins; keyword rules that fail to resolve a city fall through so
// the turn degrades to the natural-language path.
func Classify(text string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, pattern := range comparePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return Intent{
				Skill: SkillCompare,
				City:  strings.TrimSpace(m[1]),
				City2: strings.TrimSpace(m[2]),
			}
		}
	}

	if containsAny(lower, forecastWords) {
		if city := ExtractCity(text); city != "" {
			days := 3
			if m := daysPattern.FindStringSubmatch(lower); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					days = min(max(n, 1), 5)
				}
			}
			return Intent{Skill: SkillForecast, City: city, Days: days}
		}
	}

	if containsAny(lower, airQualityWords) {
		if city := ExtractCity(text); city != "" {
			return Intent{Skill: SkillAirQuality, City: city}
		}
	}

	if containsAny(lower, recommendationWords) {
		if city := ExtractCity(text); city != "" {
			return Intent{Skill: SkillRecommendations, City: city}
		}
	}

	if containsAny(lower, summaryWords) {
		if city := ExtractCity(text); city != "" {
			return Intent{Skill: SkillSummary, City: city}
		}
	}

	if containsAny(lower, currentWords) {
		if city := ExtractCity(text); city != "" {
			return Intent{Skill: SkillCurrent, City: city}
		}
	}

	// Bare city: short utterances that are just a place name.
	if city := ExtractCity(text); city != "" && len(strings.Fields(text)) <= 3 {
		return Intent{Skill: SkillCurrent, City: city}
	}

	return Intent{Skill: SkillQuery, Question: text}
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
