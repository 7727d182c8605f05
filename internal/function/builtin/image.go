package builtin

import (
	"context"

	"varta/internal/function"
	"varta/internal/india"
	"varta/internal/llm"
)

// GenerateImage renders an image through the backend's image surface. The
// prompt is region-enhanced before submission.
func GenerateImage(client llm.Client, enhancer *india.Enhancer) function.Definition {
	return function.Definition{
		Name:        "generate_image",
		Description: "Generate an image from a text prompt with Indian visual context.",
		Category:    function.CategoryMedia,
		Parameters: []function.ParameterSchema{
			{
				Name:        "prompt",
				Type:        function.TypeString,
				Description: "Description of the image to generate",
				Required:    true,
			},
			{
				Name:        "style",
				Type:        function.TypeString,
				Description: "Visual style",
				Enum:        []string{"realistic", "poster", "sketch"},
				Default:     "realistic",
			},
		},
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			prompt := args["prompt"].(string)
			style := args["style"].(string)

			resp, err := client.GenerateImage(ctx, &llm.ImageRequest{
				Prompt: enhancer.EnhanceImagePrompt(prompt, style),
			})
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"prompt":         prompt,
				"style":          style,
				"urls":           resp.URLs,
				"revised_prompt": resp.RevisedPrompt,
			}, nil
		}),
	}
}
