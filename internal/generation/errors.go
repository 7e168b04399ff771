package generation

import "errors"

// Common errors returned by Invoker implementations
var (
	// ErrNoOutput is returned when the model produces no usable output: a nil
	// response, no candidates, empty text, or structured output that does not
	// match the requested schema.
	ErrNoOutput = errors.New("model returned no usable output")

	// ErrInvalidResponse is returned when the model response cannot be parsed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the invoker configuration is invalid
	ErrInvalidConfig = errors.New("invalid invoker configuration")

	// ErrInvalidDataURI is returned when a media data URI cannot be decoded
	ErrInvalidDataURI = errors.New("invalid data URI")
)
