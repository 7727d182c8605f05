package builtin

import (
	"context"

	"varta/internal/function"
	"varta/internal/india"
)

// Weather reports current conditions for an Indian city from the mock
// dataset.
func Weather() function.Definition {
	return function.Definition{
		Name:        "get_weather",
		Description: "Get current weather for an Indian city.",
		Category:    function.CategoryInformation,
		Parameters: []function.ParameterSchema{
			{
				Name:        "location",
				Type:        function.TypeString,
				Description: "City name, e.g. Mumbai or Bengaluru",
				Required:    true,
			},
			{
				Name:        "units",
				Type:        function.TypeString,
				Description: "Temperature units",
				Enum:        []string{"celsius", "fahrenheit"},
				Default:     "celsius",
			},
		},
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			location := args["location"].(string)
			units := args["units"].(string)

			report := india.CityWeather(location)

			temperature := report.TempC
			if units == "fahrenheit" {
				temperature = report.TempC*9/5 + 32
			}

			return map[string]any{
				"city":        report.City,
				"condition":   report.Condition,
				"temperature": temperature,
				"units":       units,
				"humidity":    report.Humidity,
			}, nil
		}),
	}
}
