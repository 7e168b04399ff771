package nutrition

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/generation"
)

// Definitions returns every nutrition flow definition.
func Definitions() []flow.Definition {
	return []flow.Definition{
		foodPhotoDefinition(),
		autoLogDefinition(),
		trendsDefinition(),
		coachDefinition(),
		carbonDefinition(),
		ecoPlanDefinition(),
		moodDefinition(),
		chatDefinition(),
	}
}

// NewRegistry binds every definition to invoker.
func NewRegistry(invoker generation.Invoker, logger *slog.Logger, opts ...flow.Option) (*flow.Registry, error) {
	defs := Definitions()
	flows := make([]*flow.Flow, 0, len(defs))
	for _, def := range defs {
		f, err := flow.New(def, invoker, logger, opts...)
		if err != nil {
			return nil, fmt.Errorf("build flow %s: %w", def.Name, err)
		}
		flows = append(flows, f)
	}
	return flow.NewRegistry(flows...)
}
