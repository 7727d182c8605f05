package builtin

import (
	"context"

	"varta/internal/function"
	"varta/internal/india"
)

// Festivals looks up the Indian festival calendar.
func Festivals() function.Definition {
	return function.Definition{
		Name:        "get_festivals",
		Description: "List Indian festivals, optionally filtered by month and region.",
		Category:    function.CategoryInformation,
		Parameters: []function.ParameterSchema{
			{
				Name:        "month",
				Type:        function.TypeInteger,
				Description: "Month number 1-12; omit for the whole year",
			},
			{
				Name:        "region",
				Type:        function.TypeString,
				Description: "State or region name to filter by, e.g. Kerala",
			},
		},
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			month := 0
			if v, ok := args["month"]; ok {
				month = v.(int)
			}
			region := ""
			if v, ok := args["region"]; ok {
				region = v.(string)
			}

			festivals := india.Festivals(month, region)

			out := make([]map[string]any, len(festivals))
			for i, f := range festivals {
				out[i] = map[string]any{
					"name":        f.Name,
					"month":       f.Month,
					"region":      f.Region,
					"description": f.Description,
				}
			}
			return map[string]any{"festivals": out, "count": len(out)}, nil
		}),
	}
}
