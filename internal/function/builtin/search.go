package builtin

import (
	"context"

	"varta/internal/function"
	"varta/internal/india"
	"varta/internal/llm"
)

// WebSearch queries the search surface of the LLM backend. When the backend
// is unreachable the mock dataset answers instead, marked as fallback data.
func WebSearch(client llm.Client) function.Definition {
	return function.Definition{
		Name:        "web_search",
		Description: "Search the web for current information with an Indian regional focus.",
		Category:    function.CategorySearch,
		Parameters: []function.ParameterSchema{
			{
				Name:        "query",
				Type:        function.TypeString,
				Description: "Search query",
				Required:    true,
			},
			{
				Name:        "max_results",
				Type:        function.TypeInteger,
				Description: "Maximum number of results to return",
				Default:     5,
			},
		},
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			query := args["query"].(string)
			maxResults := args["max_results"].(int)

			resp, err := client.WebSearch(ctx, &llm.SearchRequest{
				Query:      query,
				MaxResults: maxResults,
			})
			if err != nil {
				return fallbackResults(query, maxResults), nil
			}

			results := make([]map[string]any, len(resp.Results))
			for i, r := range resp.Results {
				results[i] = map[string]any{
					"title":   r.Title,
					"snippet": r.Snippet,
					"url":     r.URL,
				}
			}
			return map[string]any{
				"query":    query,
				"results":  results,
				"fallback": false,
			}, nil
		}),
	}
}

func fallbackResults(query string, max int) map[string]any {
	mock := india.FallbackSearchResults(query, max)
	results := make([]map[string]any, len(mock))
	for i, r := range mock {
		results[i] = map[string]any{
			"title":   r.Title,
			"snippet": r.Snippet,
			"url":     r.URL,
		}
	}
	return map[string]any{
		"query":    query,
		"results":  results,
		"fallback": true,
	}
}
