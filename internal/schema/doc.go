// Package schema describes the accepted shape of flow requests and model
// responses as declarative field descriptors, and validates untyped values
// (decoded JSON) against them.
//
// A successful validation returns a fresh normalized value: numbers become
// float64, unknown object keys are dropped and optional fields with defaults
// are filled in. Failures are reported as a *ValidationError listing every
// offending path, so callers can decide whether to retry, default or abort.
//
// The same descriptors can be exported as JSON Schema documents for API
// clients, and are converted by the Gemini adapter into structured-output
// schemas for the model.
package schema
