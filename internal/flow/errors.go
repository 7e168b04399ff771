package flow

import "errors"

var (
	// ErrUnknownFlow is returned when a registry has no flow with the requested name.
	ErrUnknownFlow = errors.New("unknown flow")

	// ErrInvalidInput wraps the schema.ValidationError for a rejected request.
	ErrInvalidInput = errors.New("invalid flow input")

	// ErrInvalidOutput is returned when the model output cannot be turned into
	// a response that satisfies the output schema. It is always reported
	// together with generation.ErrNoOutput.
	ErrInvalidOutput = errors.New("invalid flow output")

	// ErrInvalidDefinition is returned by New for malformed definitions.
	ErrInvalidDefinition = errors.New("invalid flow definition")
)
