// Package flow implements the generic flow orchestrator.
//
// A Flow is built from a Definition: input and output schemas, a prompt
// template, and optional hooks for media, conversation history,
// insufficient-data short-circuits, output defaults, cross-field checks and
// failure recovery. Every invocation walks the same state machine:
//
//	received -> pre-checked -> (short-circuited | prompted -> invoked -> validated) -> returned
//
// Input that fails validation is rejected before the model is called. A
// returned response always satisfies the output schema. Flows hold no
// mutable state and may be invoked concurrently.
package flow
