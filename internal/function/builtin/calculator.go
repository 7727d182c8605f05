package builtin

import (
	"context"

	"varta/internal/function"
)

// Calculator evaluates arithmetic expressions locally.
func Calculator() function.Definition {
	return function.Definition{
		Name:        "calculator",
		Description: "Evaluate an arithmetic expression. Supports + - * / % ^ and parentheses.",
		Category:    function.CategoryUtility,
		Parameters: []function.ParameterSchema{
			{
				Name:        "expression",
				Type:        function.TypeString,
				Description: "The arithmetic expression to evaluate, e.g. \"(12 + 8) * 3\"",
				Required:    true,
			},
		},
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			expression := args["expression"].(string)

			value, err := evaluate(expression)
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"expression": expression,
				"result":     value,
				"formatted":  formatNumber(value),
			}, nil
		}),
	}
}
