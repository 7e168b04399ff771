// Package config loads the service settings from NUTRI_-prefixed environment
// variables and an optional config.yaml, applies defaults, and validates the
// result. Settings are grouped by concern: HTTP server, model service, run
// journal database and tracing.
package config
