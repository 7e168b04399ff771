// Package nutrition defines the nutrition assistant's flows: food-photo
// analysis, macro auto-logging, nutrient trends, coaching, carbon-footprint
// comparison, eco meal plans, food-mood correlation and chat.
//
// Each flow is a flow.Definition built from package-level schemas and
// templates. Definitions returns them all; NewRegistry binds them to an
// invoker. Service wraps the registry with typed request and response
// structs for Go callers.
package nutrition
