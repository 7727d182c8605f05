package india

import (
	"fmt"
	"strings"
)

// Stateless mock datasets standing in for real integrations. Lookups are
// deterministic so tool behavior is reproducible offline.

// WeatherReport is a point-in-time weather snapshot for a city.
type WeatherReport struct {
	City      string
	Condition string
	TempC     float64
	Humidity  int
}

var cityWeather = map[string]WeatherReport{
	"mumbai":    {City: "Mumbai", Condition: "humid and partly cloudy", TempC: 31, Humidity: 78},
	"delhi":     {City: "Delhi", Condition: "hazy sunshine", TempC: 34, Humidity: 42},
	"bengaluru": {City: "Bengaluru", Condition: "pleasant with light breeze", TempC: 26, Humidity: 60},
	"chennai":   {City: "Chennai", Condition: "hot and humid", TempC: 35, Humidity: 70},
	"kolkata":   {City: "Kolkata", Condition: "overcast", TempC: 32, Humidity: 74},
	"hyderabad": {City: "Hyderabad", Condition: "clear skies", TempC: 33, Humidity: 48},
	"pune":      {City: "Pune", Condition: "mild and dry", TempC: 28, Humidity: 50},
	"jaipur":    {City: "Jaipur", Condition: "dry heat", TempC: 38, Humidity: 30},
	"kochi":     {City: "Kochi", Condition: "monsoon showers", TempC: 27, Humidity: 88},
	"ahmedabad": {City: "Ahmedabad", Condition: "sunny", TempC: 37, Humidity: 35},
}

// CityWeather looks up weather for an Indian city. Unknown cities get a
// generic subtropical report so the weather tool never fails a lookup.
func CityWeather(city string) WeatherReport {
	if report, ok := cityWeather[strings.ToLower(strings.TrimSpace(city))]; ok {
		return report
	}
	return WeatherReport{City: city, Condition: "warm and partly cloudy", TempC: 30, Humidity: 55}
}

// inrPerUnit maps a currency code to its value in INR.
var inrPerUnit = map[string]float64{
	"INR": 1,
	"USD": 83.20,
	"EUR": 90.15,
	"GBP": 105.40,
	"JPY": 0.56,
	"AED": 22.65,
	"SGD": 61.80,
	"AUD": 54.30,
	"CAD": 61.10,
	"CHF": 94.70,
}

// ExchangeRate returns how many units of `to` one unit of `from` buys.
func ExchangeRate(from, to string) (float64, error) {
	fromRate, ok := inrPerUnit[strings.ToUpper(strings.TrimSpace(from))]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", from)
	}
	toRate, ok := inrPerUnit[strings.ToUpper(strings.TrimSpace(to))]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", to)
	}
	return fromRate / toRate, nil
}

// SupportedCurrencies lists the currency codes the mock table covers.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(inrPerUnit))
	for code := range inrPerUnit {
		codes = append(codes, code)
	}
	return codes
}

// Festival is an entry of the festival calendar.
type Festival struct {
	Name        string
	Month       int
	Region      string
	Description string
}

var festivalCalendar = []Festival{
	{Name: "Pongal", Month: 1, Region: "Tamil Nadu", Description: "Harvest festival of Tamil Nadu"},
	{Name: "Makar Sankranti", Month: 1, Region: "Pan-India", Description: "Kite-flying harvest festival"},
	{Name: "Holi", Month: 3, Region: "Pan-India", Description: "Festival of colors"},
	{Name: "Baisakhi", Month: 4, Region: "Punjab", Description: "Punjabi harvest new year"},
	{Name: "Raksha Bandhan", Month: 8, Region: "Pan-India", Description: "Celebration of sibling bonds"},
	{Name: "Onam", Month: 9, Region: "Kerala", Description: "Kerala harvest festival with boat races"},
	{Name: "Ganesh Chaturthi", Month: 9, Region: "Maharashtra", Description: "Festival honoring Lord Ganesha"},
	{Name: "Durga Puja", Month: 10, Region: "West Bengal", Description: "Worship of goddess Durga"},
	{Name: "Navratri", Month: 10, Region: "Gujarat", Description: "Nine nights of dance and devotion"},
	{Name: "Diwali", Month: 11, Region: "Pan-India", Description: "Festival of lights"},
	{Name: "Chhath Puja", Month: 11, Region: "Bihar", Description: "Sun worship festival"},
	{Name: "Christmas", Month: 12, Region: "Pan-India", Description: "Christmas celebrations"},
}

// Festivals filters the calendar by month (1-12, 0 for all) and region
// substring ("" for all).
func Festivals(month int, region string) []Festival {
	region = strings.ToLower(strings.TrimSpace(region))

	var out []Festival
	for _, f := range festivalCalendar {
		if month != 0 && f.Month != month {
			continue
		}
		if region != "" && !strings.Contains(strings.ToLower(f.Region), region) {
			continue
		}
		out = append(out, f)
	}
	return out
}

var headlines = map[string][]string{
	"national": {
		"Parliament passes landmark infrastructure bill",
		"Monsoon arrives early over Kerala coast",
		"New metro line inaugurated in Pune",
	},
	"cricket": {
		"India clinch series with last-over thriller in Chennai",
		"Young spinner earns maiden Test call-up",
		"IPL auction sets new record for uncapped players",
	},
	"business": {
		"Sensex closes at record high on IT rally",
		"RBI holds repo rate steady at policy review",
		"UPI transactions cross new monthly record",
	},
	"bollywood": {
		"Period drama dominates weekend box office",
		"Veteran composer announces farewell tour",
		"Streaming release breaks first-day viewership record",
	},
	"technology": {
		"Bengaluru startup unveils vernacular AI assistant",
		"ISRO announces next lunar mission window",
		"Semiconductor fab breaks ground in Gujarat",
	},
}

// Headlines returns mock headlines for a news category, defaulting to
// national coverage for unknown categories.
func Headlines(category string) []string {
	if list, ok := headlines[strings.ToLower(strings.TrimSpace(category))]; ok {
		return list
	}
	return headlines["national"]
}

// NewsCategories lists the categories the mock dataset covers.
func NewsCategories() []string {
	return []string{"national", "cricket", "business", "bollywood", "technology"}
}

// MockResult is a fabricated search result used when the search backend is
// unreachable.
type MockResult struct {
	Title   string
	Snippet string
	URL     string
}

// FallbackSearchResults fabricates offline results for a query from the
// headline dataset, marked by their source domain.
func FallbackSearchResults(query string, max int) []MockResult {
	if max <= 0 {
		max = 5
	}

	var out []MockResult
	for _, category := range NewsCategories() {
		for _, h := range headlines[category] {
			out = append(out, MockResult{
				Title:   h,
				Snippet: fmt.Sprintf("Cached %s coverage related to %q.", category, query),
				URL:     fmt.Sprintf("https://news.example.in/%s", category),
			})
			if len(out) == max {
				return out
			}
		}
	}
	return out
}
