// Package builtin ships the default tool set: local utilities backed by the
// mock datasets and thin wrappers over the LLM backend's search and image
// surfaces.
package builtin

import (
	"fmt"

	"varta/internal/function"
	"varta/internal/india"
	"varta/internal/llm"
)

// RegisterDefaults registers every builtin tool on the registry.
func RegisterDefaults(registry *function.Registry, client llm.Client, enhancer *india.Enhancer) error {
	defs := []function.Definition{
		Calculator(),
		Weather(),
		Currency(),
		Festivals(),
		News(),
		WebSearch(client),
		GenerateImage(client, enhancer),
	}

	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return fmt.Errorf("register builtin %s: %w", def.Name, err)
		}
	}
	return nil
}
