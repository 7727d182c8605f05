package builtin

import (
	"context"
	"math"
	"strings"

	"varta/internal/function"
	"varta/internal/india"
)

// Currency converts an amount between currencies using the mock INR rate
// table.
func Currency() function.Definition {
	return function.Definition{
		Name:        "convert_currency",
		Description: "Convert an amount between currencies using INR-anchored rates.",
		Category:    function.CategoryUtility,
		Parameters: []function.ParameterSchema{
			{
				Name:        "amount",
				Type:        function.TypeNumber,
				Description: "Amount to convert",
				Required:    true,
			},
			{
				Name:        "to",
				Type:        function.TypeString,
				Description: "Target currency code, e.g. USD",
				Required:    true,
			},
			{
				Name:        "from",
				Type:        function.TypeString,
				Description: "Source currency code",
				Default:     "INR",
			},
		},
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			amount := args["amount"].(float64)
			from := strings.ToUpper(args["from"].(string))
			to := strings.ToUpper(args["to"].(string))

			rate, err := india.ExchangeRate(from, to)
			if err != nil {
				return nil, err
			}

			converted := math.Round(amount*rate*100) / 100

			return map[string]any{
				"amount":    amount,
				"from":      from,
				"to":        to,
				"rate":      rate,
				"converted": converted,
			}, nil
		}),
	}
}
