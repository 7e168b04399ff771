package flow

import (
	"fmt"

	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

// Definition describes one flow. Definitions are values; once passed to New
// they are never modified.
type Definition struct {
	Name        string
	Description string

	Input  *schema.Schema
	Output *schema.Schema

	// Template renders the prompt from the validated input, or from the
	// result of PromptData when set.
	Template *prompt.Template

	// PromptData derives the values the template sees. It receives a copy
	// of the validated input and must keep its shape.
	PromptData func(in map[string]any) map[string]any

	// System is an optional system instruction sent with every request.
	System string

	// Structured flows ask the model for JSON matching Output. Text flows
	// take the model's free text as the value of Output's single string
	// field.
	Structured bool

	// Media extracts inline attachments from the validated input. An error
	// is treated as invalid input.
	Media func(in map[string]any) ([]generation.Media, error)

	// History extracts prior conversation turns from the validated input.
	History func(in map[string]any) []generation.Message

	// PreCheck may answer without calling the model. When ok is true the
	// response is validated against Output and returned as is.
	PreCheck func(in map[string]any) (resp map[string]any, ok bool)

	// Defaults fills in values the model left out, before output validation.
	// It receives a copy of the model output and may modify it.
	Defaults func(in, out map[string]any) map[string]any

	// Finalize applies cross-field rules to the validated output.
	Finalize func(in, out map[string]any) (map[string]any, error)

	// Recover may turn a model or output failure into a response.
	Recover func(err error) (resp map[string]any, ok bool)
}

// check validates d and returns the text field name for text flows.
func (d Definition) check() (string, error) {
	if d.Name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if d.Input == nil || d.Input.Kind != schema.KindObject {
		return "", fmt.Errorf("%w: %s: input schema must be an object", ErrInvalidDefinition, d.Name)
	}
	if d.Output == nil || d.Output.Kind != schema.KindObject {
		return "", fmt.Errorf("%w: %s: output schema must be an object", ErrInvalidDefinition, d.Name)
	}
	if d.Template == nil {
		return "", fmt.Errorf("%w: %s: template is required", ErrInvalidDefinition, d.Name)
	}
	if d.Structured {
		return "", nil
	}

	if len(d.Output.Fields) != 1 || d.Output.Fields[0].Schema.Kind != schema.KindString {
		return "", fmt.Errorf("%w: %s: text flows need an output with exactly one string field",
			ErrInvalidDefinition, d.Name)
	}
	return d.Output.Fields[0].Name, nil
}
