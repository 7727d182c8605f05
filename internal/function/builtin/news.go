package builtin

import (
	"context"

	"varta/internal/function"
	"varta/internal/india"
)

// News returns mock headlines by category.
func News() function.Definition {
	return function.Definition{
		Name:        "get_news",
		Description: "Get current Indian news headlines for a category.",
		Category:    function.CategoryInformation,
		Parameters: []function.ParameterSchema{
			{
				Name:        "category",
				Type:        function.TypeString,
				Description: "News category",
				Enum:        india.NewsCategories(),
				Default:     "national",
			},
		},
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			category := args["category"].(string)
			return map[string]any{
				"category":  category,
				"headlines": india.Headlines(category),
			}, nil
		}),
	}
}
